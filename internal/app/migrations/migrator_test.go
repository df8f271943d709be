package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_catalog.sql"))
	assert.Equal(t, "002", Version("sql/002_articles.sql"))
	assert.Equal(t, "init.sql", Version("init.sql"))
}

func TestSchemaIsOrderedAndComplete(t *testing.T) {
	m := &Migrator{files: Schema()}

	files, err := m.sqlFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_catalog.sql", "002_articles.sql", "003_users_notifications.sql"}, files)

	content, err := fs.ReadFile(Schema(), "002_articles.sql")
	require.NoError(t, err)
	for _, table := range []string{"articles", "keywords", "article_keyword", "files"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, string(content), "ON DELETE CASCADE")
}
