package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookshop/internal/store"
	"bookshop/internal/util"
	"bookshop/pkg/domain"
)

const relatedBooksLimit = 4

func mapStoreWrite(err error, kind, name string) error {
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("%s %q: %w", kind, name, ErrConflict)
	}
	return err
}

// CreateWriter adds a writer. A taken name is a conflict.
func (a *App) CreateWriter(ctx context.Context, name, biography, photo string) (domain.Writer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Writer{}, invalidf("writer name is required")
	}
	now := a.now()
	w := domain.Writer{
		ID:        util.NewID(),
		Name:      name,
		Biography: biography,
		Photo:     photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SaveWriter(ctx, w); err != nil {
		return domain.Writer{}, mapStoreWrite(err, "writer", name)
	}
	return w, nil
}

// UpdateWriter applies non-empty fields to a writer.
func (a *App) UpdateWriter(ctx context.Context, id, name, biography, photo string) (domain.Writer, error) {
	w, err := a.GetWriter(ctx, id)
	if err != nil {
		return domain.Writer{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		w.Name = name
	}
	if biography != "" {
		w.Biography = biography
	}
	if photo != "" {
		w.Photo = photo
	}
	w.UpdatedAt = a.now()
	if err := a.store.UpdateWriter(ctx, w); err != nil {
		return domain.Writer{}, mapStoreWrite(err, "writer", w.Name)
	}
	return w, nil
}

func (a *App) GetWriter(ctx context.Context, id string) (domain.Writer, error) {
	w, ok, err := a.store.GetWriterByID(ctx, id)
	if err != nil {
		return domain.Writer{}, fmt.Errorf("look up writer: %w", err)
	}
	if !ok {
		return domain.Writer{}, fmt.Errorf("writer %s: %w", id, ErrNotFound)
	}
	return w, nil
}

func (a *App) DeleteWriter(ctx context.Context, id string) error {
	if _, err := a.GetWriter(ctx, id); err != nil {
		return err
	}
	return a.store.DeleteWriter(ctx, id)
}

// ListWriters returns one facet page of writers.
func (a *App) ListWriters(ctx context.Context, pageNo, perPage, search string) ([]domain.Writer, int64, error) {
	page := store.NormalizePage(pageNo, perPage, store.DefaultListPageSize)
	term, _ := store.SearchTerm(search)
	return a.store.ListWriters(ctx, page, term)
}

// CreateCategory adds a category. A taken name is a conflict.
func (a *App) CreateCategory(ctx context.Context, name, photo string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, invalidf("category name is required")
	}
	now := a.now()
	c := domain.Category{
		ID:        util.NewID(),
		Name:      name,
		Photo:     photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SaveCategory(ctx, c); err != nil {
		return domain.Category{}, mapStoreWrite(err, "category", name)
	}
	return c, nil
}

func (a *App) UpdateCategory(ctx context.Context, id, name, photo string) (domain.Category, error) {
	c, err := a.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		c.Name = name
	}
	if photo != "" {
		c.Photo = photo
	}
	c.UpdatedAt = a.now()
	if err := a.store.UpdateCategory(ctx, c); err != nil {
		return domain.Category{}, mapStoreWrite(err, "category", c.Name)
	}
	return c, nil
}

func (a *App) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	c, ok, err := a.store.GetCategoryByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("look up category: %w", err)
	}
	if !ok {
		return domain.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (a *App) DeleteCategory(ctx context.Context, id string) error {
	if _, err := a.GetCategory(ctx, id); err != nil {
		return err
	}
	return a.store.DeleteCategory(ctx, id)
}

func (a *App) ListCategories(ctx context.Context, pageNo, perPage, search string) ([]domain.Category, int64, error) {
	page := store.NormalizePage(pageNo, perPage, store.DefaultListPageSize)
	term, _ := store.SearchTerm(search)
	return a.store.ListCategories(ctx, page, term)
}

// CreatePublication adds a publication. A taken name is a conflict.
func (a *App) CreatePublication(ctx context.Context, name, photo string) (domain.Publication, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Publication{}, invalidf("publication name is required")
	}
	now := a.now()
	p := domain.Publication{
		ID:        util.NewID(),
		Name:      name,
		Photo:     photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SavePublication(ctx, p); err != nil {
		return domain.Publication{}, mapStoreWrite(err, "publication", name)
	}
	return p, nil
}

func (a *App) UpdatePublication(ctx context.Context, id, name, photo string) (domain.Publication, error) {
	p, err := a.GetPublication(ctx, id)
	if err != nil {
		return domain.Publication{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		p.Name = name
	}
	if photo != "" {
		p.Photo = photo
	}
	p.UpdatedAt = a.now()
	if err := a.store.UpdatePublication(ctx, p); err != nil {
		return domain.Publication{}, mapStoreWrite(err, "publication", p.Name)
	}
	return p, nil
}

func (a *App) GetPublication(ctx context.Context, id string) (domain.Publication, error) {
	p, ok, err := a.store.GetPublicationByID(ctx, id)
	if err != nil {
		return domain.Publication{}, fmt.Errorf("look up publication: %w", err)
	}
	if !ok {
		return domain.Publication{}, fmt.Errorf("publication %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (a *App) DeletePublication(ctx context.Context, id string) error {
	if _, err := a.GetPublication(ctx, id); err != nil {
		return err
	}
	return a.store.DeletePublication(ctx, id)
}

func (a *App) ListPublications(ctx context.Context, pageNo, perPage, search string) ([]domain.Publication, int64, error) {
	page := store.NormalizePage(pageNo, perPage, store.DefaultListPageSize)
	term, _ := store.SearchTerm(search)
	return a.store.ListPublications(ctx, page, term)
}

// BookInput carries the book create/update form fields.
type BookInput struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Photo         string  `json:"photo"`
	Price         float64 `json:"price"`
	Discount      float64 `json:"discount"`
	Stock         int     `json:"stock"`
	AuthorID      string  `json:"authorId"`
	CategoryID    string  `json:"categoryId"`
	PublicationID string  `json:"publicationId"`
}

func (a *App) validateBookRefs(ctx context.Context, in BookInput) error {
	if _, err := a.GetWriter(ctx, in.AuthorID); err != nil {
		return err
	}
	if in.CategoryID != "" {
		if _, err := a.GetCategory(ctx, in.CategoryID); err != nil {
			return err
		}
	}
	if in.PublicationID != "" {
		if _, err := a.GetPublication(ctx, in.PublicationID); err != nil {
			return err
		}
	}
	return nil
}

// CreateBook adds a book after validating its references.
func (a *App) CreateBook(ctx context.Context, in BookInput) (domain.Book, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Book{}, invalidf("book title is required")
	}
	if in.Price < 0 {
		return domain.Book{}, invalidf("book price must not be negative")
	}
	if in.AuthorID == "" {
		return domain.Book{}, invalidf("book author is required")
	}
	if err := a.validateBookRefs(ctx, in); err != nil {
		return domain.Book{}, err
	}
	now := a.now()
	b := domain.Book{
		ID:            util.NewID(),
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Photo:         in.Photo,
		Price:         in.Price,
		Discount:      in.Discount,
		Stock:         in.Stock,
		AuthorID:      in.AuthorID,
		CategoryID:    in.CategoryID,
		PublicationID: in.PublicationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.store.SaveBook(ctx, b); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return a.GetBook(ctx, b.ID)
}

// UpdateBook applies non-zero fields to a book.
func (a *App) UpdateBook(ctx context.Context, id string, in BookInput) (domain.Book, error) {
	b, err := a.GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		b.Title = title
	}
	if in.Description != "" {
		b.Description = in.Description
	}
	if in.Photo != "" {
		b.Photo = in.Photo
	}
	if in.Price < 0 {
		return domain.Book{}, invalidf("book price must not be negative")
	}
	if in.Price > 0 {
		b.Price = in.Price
	}
	if in.Discount > 0 {
		b.Discount = in.Discount
	}
	if in.Stock > 0 {
		b.Stock = in.Stock
	}
	if in.AuthorID != "" {
		b.AuthorID = in.AuthorID
	}
	if in.CategoryID != "" {
		b.CategoryID = in.CategoryID
	}
	if in.PublicationID != "" {
		b.PublicationID = in.PublicationID
	}
	if err := a.validateBookRefs(ctx, BookInput{
		AuthorID:      b.AuthorID,
		CategoryID:    b.CategoryID,
		PublicationID: b.PublicationID,
	}); err != nil {
		return domain.Book{}, err
	}
	b.UpdatedAt = a.now()
	b.Author, b.Category, b.Publication, b.Reviews = nil, nil, nil, nil
	if err := a.store.UpdateBook(ctx, b); err != nil {
		return domain.Book{}, fmt.Errorf("update book: %w", err)
	}
	return a.GetBook(ctx, id)
}

func (a *App) GetBook(ctx context.Context, id string) (domain.Book, error) {
	b, ok, err := a.store.GetBookByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("look up book: %w", err)
	}
	if !ok {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	return b, nil
}

func (a *App) DeleteBook(ctx context.Context, id string) error {
	if _, err := a.GetBook(ctx, id); err != nil {
		return err
	}
	return a.store.DeleteBook(ctx, id)
}

// ListBooks returns one facet page of joined books.
func (a *App) ListBooks(ctx context.Context, pageNo, perPage, search string) ([]domain.Book, int64, error) {
	page := store.NormalizePage(pageNo, perPage, store.DefaultBookPageSize)
	term, _ := store.SearchTerm(search)
	return a.store.ListBooks(ctx, page, term)
}

// BooksByCategoryName resolves a category by name and lists its books.
func (a *App) BooksByCategoryName(ctx context.Context, name string) ([]domain.Book, error) {
	c, ok, err := a.store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up category: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	return a.store.BooksByCategoryID(ctx, c.ID)
}

// BooksByPublicationName resolves a publication by name and lists its books.
func (a *App) BooksByPublicationName(ctx context.Context, name string) ([]domain.Book, error) {
	p, ok, err := a.store.GetPublicationByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up publication: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("publication %q: %w", name, ErrNotFound)
	}
	return a.store.BooksByPublicationID(ctx, p.ID)
}

// BooksByWriterName resolves a writer by name and pages through their books.
func (a *App) BooksByWriterName(ctx context.Context, name, pageNo, perPage string) (domain.Writer, []domain.Book, int64, error) {
	w, ok, err := a.store.GetWriterByName(ctx, name)
	if err != nil {
		return domain.Writer{}, nil, 0, fmt.Errorf("look up writer: %w", err)
	}
	if !ok {
		return domain.Writer{}, nil, 0, fmt.Errorf("writer %q: %w", name, ErrNotFound)
	}
	page := store.NormalizePage(pageNo, perPage, store.DefaultListPageSize)
	books, total, err := a.store.BooksByAuthorID(ctx, w.ID, page)
	if err != nil {
		return domain.Writer{}, nil, 0, err
	}
	return w, books, total, nil
}

// SearchBooksByTitle matches book titles case-insensitively.
func (a *App) SearchBooksByTitle(ctx context.Context, title string) ([]domain.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidf("search title is required")
	}
	return a.store.SearchBooksByTitle(ctx, title)
}

// RelatedBooks lists up to four newest books sharing the book's category.
func (a *App) RelatedBooks(ctx context.Context, bookID string) ([]domain.Book, error) {
	b, err := a.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b.CategoryID == "" {
		return []domain.Book{}, nil
	}
	return a.store.RelatedBooks(ctx, b.CategoryID, b.ID, relatedBooksLimit)
}

// FilterBooksInput carries the raw filter form; empty fields are skipped.
type FilterBooksInput struct {
	PageNo      string   `json:"pageNo"`
	PerPage     string   `json:"perPage"`
	Sort        string   `json:"sort"`
	Category    string   `json:"category"`
	Publication string   `json:"publication"`
	Author      string   `json:"author"`
	MinPrice    *float64 `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`
}

// FilterBooks applies attribute and price filters with caller-controlled
// pagination.
func (a *App) FilterBooks(ctx context.Context, in FilterBooksInput) ([]domain.Book, int64, error) {
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, 0, invalidf("minPrice must not exceed maxPrice")
	}
	f := store.BookFilter{
		Page:        store.NormalizePage(in.PageNo, in.PerPage, store.DefaultBookPageSize),
		Sort:        in.Sort,
		Category:    strings.TrimSpace(in.Category),
		Publication: strings.TrimSpace(in.Publication),
		Author:      strings.TrimSpace(in.Author),
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
	}
	return a.store.FilterBooks(ctx, f)
}
