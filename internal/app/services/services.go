// Package services holds the business logic behind the HTTP controllers.
//
// Services defined in this package:
//   - ArticleService: the content pipeline of a country partition (list, read, create, update, delete)
//   - KeywordService: articles listed under a keyword, the target of links in article content
//   - CatalogService: classes, subjects and semesters offered by the authoring form
package services
