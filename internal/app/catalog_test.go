package app

import (
	"context"
	"errors"
	"testing"
)

func TestCreateCategoryConflict(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()

	if _, err := a.CreateCategory(ctx, "Fiction", ""); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := a.CreateCategory(ctx, "Fiction", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate category: got %v, want ErrConflict", err)
	}
	if _, err := a.CreateCategory(ctx, "   ", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("blank category name: got %v, want ErrValidation", err)
	}
}

func TestCreateBookRequiresKnownRefs(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()
	w, err := a.CreateWriter(ctx, "Jane Doe", "", "")
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}

	if _, err := a.CreateBook(ctx, BookInput{Title: "X", AuthorID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown author: got %v, want ErrNotFound", err)
	}
	if _, err := a.CreateBook(ctx, BookInput{Title: "X", AuthorID: w.ID, CategoryID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category: got %v, want ErrNotFound", err)
	}
	if _, err := a.CreateBook(ctx, BookInput{Title: "", AuthorID: w.ID}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank title: got %v, want ErrValidation", err)
	}
	if _, err := a.CreateBook(ctx, BookInput{Title: "X", AuthorID: w.ID, Price: -1}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative price: got %v, want ErrValidation", err)
	}

	b, err := a.CreateBook(ctx, BookInput{Title: "X", AuthorID: w.ID, Price: 10})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	if b.Author == nil || b.Author.Name != "Jane Doe" {
		t.Error("created book must come back with its joined author")
	}
}

func TestRelatedBooksThroughApp(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()
	w, err := a.CreateWriter(ctx, "Jane Doe", "", "")
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	c, err := a.CreateCategory(ctx, "Fiction", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	ids := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		b, err := a.CreateBook(ctx, BookInput{
			Title:      "Book " + string(rune('A'+i)),
			AuthorID:   w.ID,
			CategoryID: c.ID,
			Price:      10,
		})
		if err != nil {
			t.Fatalf("create book: %v", err)
		}
		ids = append(ids, b.ID)
	}

	related, err := a.RelatedBooks(ctx, ids[0])
	if err != nil {
		t.Fatalf("related books: %v", err)
	}
	if len(related) != 4 {
		t.Errorf("got %d related books, want 4", len(related))
	}
	for _, b := range related {
		if b.ID == ids[0] {
			t.Error("related books must not include the book itself")
		}
	}

	// A book without a category has no related books.
	solo, err := a.CreateBook(ctx, BookInput{Title: "Solo", AuthorID: w.ID, Price: 10})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	related, err = a.RelatedBooks(ctx, solo.ID)
	if err != nil {
		t.Fatalf("related books: %v", err)
	}
	if len(related) != 0 {
		t.Errorf("uncategorized book related = %d, want 0", len(related))
	}
}

func TestBooksByCategoryNameNotFound(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.BooksByCategoryName(context.Background(), "Ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category: got %v, want ErrNotFound", err)
	}
}

func TestFilterBooksValidation(t *testing.T) {
	a, _, _ := newTestApp(t)
	min, max := 100.0, 50.0
	_, _, err := a.FilterBooks(context.Background(), FilterBooksInput{MinPrice: &min, MaxPrice: &max})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("inverted price range: got %v, want ErrValidation", err)
	}
}
