package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookshop/pkg/domain"
)

// SaveWriter inserts a writer. A taken name maps to ErrDuplicate.
func (s *GormStore) SaveWriter(ctx context.Context, w domain.Writer) error {
	model := writerToModel(w)
	return mapWriteErr(s.db.WithContext(ctx).Create(&model).Error)
}

// UpdateWriter overwrites a writer's fields.
func (s *GormStore) UpdateWriter(ctx context.Context, w domain.Writer) error {
	model := writerToModel(w)
	return mapWriteErr(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "biography", "photo", "updated_at"}),
	}).Create(&model).Error)
}

func (s *GormStore) GetWriterByID(ctx context.Context, id string) (domain.Writer, bool, error) {
	var model WriterModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Writer{}, false, nil
		}
		return domain.Writer{}, false, err
	}
	return writerFromModel(model), true, nil
}

// GetWriterByName matches a writer name case-insensitively.
func (s *GormStore) GetWriterByName(ctx context.Context, name string) (domain.Writer, bool, error) {
	var model WriterModel
	if err := s.db.WithContext(ctx).Where("name ILIKE ?", likePattern(name)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Writer{}, false, nil
		}
		return domain.Writer{}, false, err
	}
	return writerFromModel(model), true, nil
}

func (s *GormStore) DeleteWriter(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&WriterModel{}, "id = ?", id).Error
}

// ListWriters returns one page of writers plus the total count under the
// same filter.
func (s *GormStore) ListWriters(ctx context.Context, page Page, search string) ([]domain.Writer, int64, error) {
	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&WriterModel{})
		if term, ok := SearchTerm(search); ok {
			tx = tx.Where("name ILIKE ?", likePattern(term))
		}
		return tx
	}
	var (
		total  int64
		models []WriterModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		return base().WithContext(gctx).
			Order("created_at ASC").
			Offset(page.Offset()).
			Limit(page.Limit()).
			Find(&models).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	writers := make([]domain.Writer, 0, len(models))
	for _, m := range models {
		writers = append(writers, writerFromModel(m))
	}
	return writers, total, nil
}

// SaveCategory inserts a category. A taken name maps to ErrDuplicate.
func (s *GormStore) SaveCategory(ctx context.Context, c domain.Category) error {
	model := categoryToModel(c)
	return mapWriteErr(s.db.WithContext(ctx).Create(&model).Error)
}

func (s *GormStore) UpdateCategory(ctx context.Context, c domain.Category) error {
	model := categoryToModel(c)
	return mapWriteErr(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "photo", "updated_at"}),
	}).Create(&model).Error)
}

func (s *GormStore) GetCategoryByID(ctx context.Context, id string) (domain.Category, bool, error) {
	var model CategoryModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Category{}, false, nil
		}
		return domain.Category{}, false, err
	}
	return categoryFromModel(model), true, nil
}

// GetCategoryByName matches a category name case-insensitively.
func (s *GormStore) GetCategoryByName(ctx context.Context, name string) (domain.Category, bool, error) {
	var model CategoryModel
	if err := s.db.WithContext(ctx).Where("name ILIKE ?", likePattern(name)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Category{}, false, nil
		}
		return domain.Category{}, false, err
	}
	return categoryFromModel(model), true, nil
}

func (s *GormStore) DeleteCategory(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&CategoryModel{}, "id = ?", id).Error
}

func (s *GormStore) ListCategories(ctx context.Context, page Page, search string) ([]domain.Category, int64, error) {
	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&CategoryModel{})
		if term, ok := SearchTerm(search); ok {
			tx = tx.Where("name ILIKE ?", likePattern(term))
		}
		return tx
	}
	var (
		total  int64
		models []CategoryModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		return base().WithContext(gctx).
			Order("created_at ASC").
			Offset(page.Offset()).
			Limit(page.Limit()).
			Find(&models).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	categories := make([]domain.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, categoryFromModel(m))
	}
	return categories, total, nil
}

// SavePublication inserts a publication. A taken name maps to ErrDuplicate.
func (s *GormStore) SavePublication(ctx context.Context, p domain.Publication) error {
	model := publicationToModel(p)
	return mapWriteErr(s.db.WithContext(ctx).Create(&model).Error)
}

func (s *GormStore) UpdatePublication(ctx context.Context, p domain.Publication) error {
	model := publicationToModel(p)
	return mapWriteErr(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "photo", "updated_at"}),
	}).Create(&model).Error)
}

func (s *GormStore) GetPublicationByID(ctx context.Context, id string) (domain.Publication, bool, error) {
	var model PublicationModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Publication{}, false, nil
		}
		return domain.Publication{}, false, err
	}
	return publicationFromModel(model), true, nil
}

// GetPublicationByName matches a publication name case-insensitively.
func (s *GormStore) GetPublicationByName(ctx context.Context, name string) (domain.Publication, bool, error) {
	var model PublicationModel
	if err := s.db.WithContext(ctx).Where("name ILIKE ?", likePattern(name)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Publication{}, false, nil
		}
		return domain.Publication{}, false, err
	}
	return publicationFromModel(model), true, nil
}

func (s *GormStore) DeletePublication(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&PublicationModel{}, "id = ?", id).Error
}

func (s *GormStore) ListPublications(ctx context.Context, page Page, search string) ([]domain.Publication, int64, error) {
	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&PublicationModel{})
		if term, ok := SearchTerm(search); ok {
			tx = tx.Where("name ILIKE ?", likePattern(term))
		}
		return tx
	}
	var (
		total  int64
		models []PublicationModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		return base().WithContext(gctx).
			Order("created_at ASC").
			Offset(page.Offset()).
			Limit(page.Limit()).
			Find(&models).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	publications := make([]domain.Publication, 0, len(models))
	for _, m := range models {
		publications = append(publications, publicationFromModel(m))
	}
	return publications, total, nil
}
