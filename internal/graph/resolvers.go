package graph

import (
	"ctchen222/booklist/internal/api/models"
	"ctchen222/booklist/internal/api/service"
	"ctchen222/booklist/internal/identity"
	"fmt"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("graph")

type resolver struct {
	readers service.ReaderService
	books   service.BookService
}

// authenticate is the gate every protected field passes through.
func authenticate(p graphql.ResolveParams) (string, error) {
	return identity.FromContext(p.Context).Require()
}

func (r *resolver) queryReaders(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authenticate(p); err != nil {
		return nil, classify(err)
	}
	readers, err := r.readers.List(p.Context)
	if err != nil {
		return nil, classify(err)
	}
	return readers, nil
}

func (r *resolver) queryBooks(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authenticate(p); err != nil {
		return nil, classify(err)
	}
	books, err := r.books.List(p.Context)
	if err != nil {
		return nil, classify(err)
	}
	return books, nil
}

func (r *resolver) queryCurrentReader(p graphql.ResolveParams) (interface{}, error) {
	readerID, err := authenticate(p)
	if err != nil {
		return nil, classify(err)
	}
	reader, err := r.readers.Get(p.Context, readerID)
	if err != nil {
		return nil, classify(err)
	}
	return readerOrNil(reader), nil
}

func (r *resolver) mutateRegister(p graphql.ResolveParams) (interface{}, error) {
	ctx, span := tracer.Start(p.Context, "graph.register")
	defer span.End()

	input := &models.RegisterInput{
		Username: stringArg(p, "username"),
		Email:    stringArg(p, "email"),
		Password: stringArg(p, "password"),
		Fullname: stringArg(p, "fullname"),
	}
	reader, err := r.readers.Register(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, classify(err)
	}
	return reader, nil
}

func (r *resolver) mutateLogin(p graphql.ResolveParams) (interface{}, error) {
	ctx, span := tracer.Start(p.Context, "graph.login")
	defer span.End()

	payload, err := r.readers.Login(ctx, &models.LoginInput{
		Email:    stringArg(p, "email"),
		Password: stringArg(p, "password"),
	})
	if err != nil {
		return nil, classify(err)
	}
	return payload, nil
}

func (r *resolver) mutateAddBook(p graphql.ResolveParams) (interface{}, error) {
	readerID, err := authenticate(p)
	if err != nil {
		return nil, classify(err)
	}
	ctx, span := tracer.Start(p.Context, "graph.addBook", trace.WithAttributes(attribute.String("reader.id", readerID)))
	defer span.End()

	book, err := r.books.Add(ctx, readerID, &models.AddBookInput{
		Title:  stringArg(p, "title"),
		Author: stringArg(p, "author"),
	})
	if err != nil {
		span.RecordError(err)
		return nil, classify(err)
	}
	return book, nil
}

// mutateDoneRead lets any authenticated reader finish any book; ownership is
// not checked.
func (r *resolver) mutateDoneRead(p graphql.ResolveParams) (interface{}, error) {
	readerID, err := authenticate(p)
	if err != nil {
		return nil, classify(err)
	}
	bookID := stringArg(p, "bookId")
	ctx, span := tracer.Start(p.Context, "graph.doneRead", trace.WithAttributes(
		attribute.String("reader.id", readerID),
		attribute.String("book.id", bookID),
	))
	defer span.End()

	var comment *string
	if v, ok := p.Args["comment"].(string); ok {
		comment = &v
	}
	book, err := r.books.MarkDone(ctx, bookID, comment)
	if err != nil {
		span.RecordError(err)
		return nil, classify(err)
	}
	return bookOrNil(book), nil
}

// readerBooks fetches every book in the reader's list. Order follows the
// list and a dangling id resolves to null at its position.
func (r *resolver) readerBooks(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authenticate(p); err != nil {
		return nil, classify(err)
	}
	reader, ok := p.Source.(*models.Reader)
	if !ok {
		return nil, fmt.Errorf("unexpected reader source %T", p.Source)
	}

	books, err := r.books.ResolveMany(p.Context, reader.Books)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]interface{}, len(books))
	for i, book := range books {
		out[i] = bookOrNil(book)
	}
	return out, nil
}

func (r *resolver) bookReader(p graphql.ResolveParams) (interface{}, error) {
	if _, err := authenticate(p); err != nil {
		return nil, classify(err)
	}
	book, ok := p.Source.(*models.Book)
	if !ok {
		return nil, fmt.Errorf("unexpected book source %T", p.Source)
	}
	reader, err := r.readers.Get(p.Context, book.UserID)
	if err != nil {
		return nil, classify(err)
	}
	return readerOrNil(reader), nil
}

func authReader(p graphql.ResolveParams) (interface{}, error) {
	payload, ok := p.Source.(*models.AuthPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected auth payload source %T", p.Source)
	}
	return readerOrNil(payload.Reader), nil
}

func bookStart(p graphql.ResolveParams) (interface{}, error) {
	book, ok := p.Source.(*models.Book)
	if !ok || book.Start.IsZero() {
		return nil, nil
	}
	return book.Start, nil
}

func bookEnd(p graphql.ResolveParams) (interface{}, error) {
	book, ok := p.Source.(*models.Book)
	if !ok || book.End == nil {
		return nil, nil
	}
	return *book.End, nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

// readerOrNil and bookOrNil turn typed nil pointers into untyped nil so the
// executor renders null.
func readerOrNil(reader *models.Reader) interface{} {
	if reader == nil {
		return nil
	}
	return reader
}

func bookOrNil(book *models.Book) interface{} {
	if book == nil {
		return nil
	}
	return book
}
