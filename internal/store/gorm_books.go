package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookshop/pkg/domain"
)

func withBookJoins(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("Category").Preload("Publication")
}

// SaveBook inserts a book.
func (s *GormStore) SaveBook(ctx context.Context, b domain.Book) error {
	model := bookToModel(b)
	return mapWriteErr(s.db.WithContext(ctx).Create(&model).Error)
}

// UpdateBook overwrites a book's fields.
func (s *GormStore) UpdateBook(ctx context.Context, b domain.Book) error {
	model := bookToModel(b)
	return mapWriteErr(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "photo", "price", "discount", "stock",
			"author_id", "category_id", "publication_id", "updated_at",
		}),
	}).Create(&model).Error)
}

// GetBookByID returns a book joined with author, category, publication and
// reviews.
func (s *GormStore) GetBookByID(ctx context.Context, id string) (domain.Book, bool, error) {
	var model BookModel
	err := withBookJoins(s.db.WithContext(ctx)).Preload("Reviews").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// DeleteBook removes a book and its reviews.
func (s *GormStore) DeleteBook(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ReviewModel{}, "book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&BookModel{}, "id = ?", id).Error
	})
}

// ListBooks returns one page of joined books plus the total count under the
// same filter. The search term matches title, author name, category name and
// publication name.
func (s *GormStore) ListBooks(ctx context.Context, page Page, search string) ([]domain.Book, int64, error) {
	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&BookModel{})
		if term, ok := SearchTerm(search); ok {
			pattern := likePattern(term)
			tx = tx.
				Joins("LEFT JOIN writer_models ON writer_models.id = book_models.author_id").
				Joins("LEFT JOIN category_models ON category_models.id = book_models.category_id").
				Joins("LEFT JOIN publication_models ON publication_models.id = book_models.publication_id").
				Where(
					"book_models.title ILIKE ? OR writer_models.name ILIKE ? OR category_models.name ILIKE ? OR publication_models.name ILIKE ?",
					pattern, pattern, pattern, pattern,
				)
		}
		return tx
	}
	var (
		total  int64
		models []BookModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		return withBookJoins(base().WithContext(gctx)).
			Select("book_models.*").
			Order("book_models.created_at DESC").
			Offset(page.Offset()).
			Limit(page.Limit()).
			Find(&models).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, total, nil
}

func (s *GormStore) listBooksWhere(ctx context.Context, query string, args ...any) ([]domain.Book, error) {
	var models []BookModel
	err := withBookJoins(s.db.WithContext(ctx)).
		Where(query, args...).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, nil
}

// BooksByCategoryID returns all joined books in a category.
func (s *GormStore) BooksByCategoryID(ctx context.Context, categoryID string) ([]domain.Book, error) {
	return s.listBooksWhere(ctx, "category_id = ?", categoryID)
}

// BooksByPublicationID returns all joined books of a publication.
func (s *GormStore) BooksByPublicationID(ctx context.Context, publicationID string) ([]domain.Book, error) {
	return s.listBooksWhere(ctx, "publication_id = ?", publicationID)
}

// BooksByAuthorID returns one page of a writer's books plus the total count.
func (s *GormStore) BooksByAuthorID(ctx context.Context, authorID string, page Page) ([]domain.Book, int64, error) {
	var (
		total  int64
		models []BookModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&BookModel{}).
			Where("author_id = ?", authorID).
			Count(&total).Error
	})
	g.Go(func() error {
		return withBookJoins(s.db.WithContext(gctx)).
			Where("author_id = ?", authorID).
			Order("created_at DESC").
			Offset(page.Offset()).
			Limit(page.Limit()).
			Find(&models).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, total, nil
}

// SearchBooksByTitle matches titles case-insensitively.
func (s *GormStore) SearchBooksByTitle(ctx context.Context, title string) ([]domain.Book, error) {
	return s.listBooksWhere(ctx, "title ILIKE ?", likePattern(title))
}

// RelatedBooks returns up to limit books in the same category, excluding the
// book itself, newest first.
func (s *GormStore) RelatedBooks(ctx context.Context, categoryID, excludeBookID string, limit int) ([]domain.Book, error) {
	var models []BookModel
	err := withBookJoins(s.db.WithContext(ctx)).
		Where("category_id = ? AND id <> ?", categoryID, excludeBookID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, nil
}

// FilterBooks applies attribute and price-range filters with optional title
// sorting and caller-controlled pagination.
func (s *GormStore) FilterBooks(ctx context.Context, f BookFilter) ([]domain.Book, int64, error) {
	base := func() (*gorm.DB, error) {
		tx := s.db.WithContext(ctx).Model(&BookModel{})
		if f.Category != "" {
			category, ok, err := s.GetCategoryByName(ctx, f.Category)
			if err != nil {
				return nil, err
			}
			if ok {
				tx = tx.Where("category_id = ?", category.ID)
			}
		}
		if f.Publication != "" {
			publication, ok, err := s.GetPublicationByName(ctx, f.Publication)
			if err != nil {
				return nil, err
			}
			if ok {
				tx = tx.Where("publication_id = ?", publication.ID)
			}
		}
		if f.Author != "" {
			author, ok, err := s.GetWriterByName(ctx, f.Author)
			if err != nil {
				return nil, err
			}
			if ok {
				tx = tx.Where("author_id = ?", author.ID)
			}
		}
		if f.MinPrice != nil {
			tx = tx.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			tx = tx.Where("price <= ?", *f.MaxPrice)
		}
		return tx, nil
	}

	countTx, err := base()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := countTx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rowsTx, err := base()
	if err != nil {
		return nil, 0, err
	}
	switch f.Sort {
	case "atoz":
		rowsTx = rowsTx.Order("title ASC")
	case "ztoa":
		rowsTx = rowsTx.Order("title DESC")
	default:
		rowsTx = rowsTx.Order("created_at DESC")
	}
	var models []BookModel
	err = withBookJoins(rowsTx).
		Offset(f.Page.Offset()).
		Limit(f.Page.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, total, nil
}
