// Package graph exposes readers and books as a GraphQL schema.
package graph

import (
	"ctchen222/booklist/internal/api/service"

	"github.com/graphql-go/graphql"
)

// NewSchema builds the reader/book schema over the given services.
func NewSchema(readers service.ReaderService, books service.BookService) (graphql.Schema, error) {
	r := &resolver{readers: readers, books: books}

	var readerType, bookType *graphql.Object

	readerType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Reader",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"email":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"fullname": &graphql.Field{Type: graphql.String},
				"books": &graphql.Field{
					Type:    graphql.NewList(bookType),
					Resolve: r.readerBooks,
				},
			}
		}),
	})

	bookType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"userId":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"title":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"author":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"comment": &graphql.Field{Type: graphql.String},
				"done":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"start":   &graphql.Field{Type: graphql.DateTime, Resolve: bookStart},
				"end":     &graphql.Field{Type: graphql.DateTime, Resolve: bookEnd},
				"reader":  &graphql.Field{Type: readerType, Resolve: r.bookReader},
				"user":    &graphql.Field{Type: readerType, Resolve: r.bookReader},
			}
		}),
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":   &graphql.Field{Type: readerType, Resolve: authReader},
			"reader": &graphql.Field{Type: readerType, Resolve: authReader},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"readers": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(readerType)),
				Resolve: r.queryReaders,
			},
			"books": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(bookType)),
				Resolve: r.queryBooks,
			},
			"currentReader": &graphql.Field{
				Type:    readerType,
				Resolve: r.queryCurrentReader,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: readerType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"fullname": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.mutateRegister,
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.mutateLogin,
			},
			"addBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"title":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"author": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.mutateAddBook,
			},
			"doneRead": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"bookId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"comment": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.mutateDoneRead,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
