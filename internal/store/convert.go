package store

import (
	"encoding/json"

	"bookshop/pkg/domain"
)

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Photo:        u.Photo,
		Address:      u.Address,
		Role:         int(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Photo:        m.Photo,
		Address:      m.Address,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func writerToModel(w domain.Writer) WriterModel {
	return WriterModel{
		ID:        w.ID,
		Name:      w.Name,
		Biography: w.Biography,
		Photo:     w.Photo,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func writerFromModel(m WriterModel) domain.Writer {
	return domain.Writer{
		ID:        m.ID,
		Name:      m.Name,
		Biography: m.Biography,
		Photo:     m.Photo,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func categoryToModel(c domain.Category) CategoryModel {
	return CategoryModel{
		ID:        c.ID,
		Name:      c.Name,
		Photo:     c.Photo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func categoryFromModel(m CategoryModel) domain.Category {
	return domain.Category{
		ID:        m.ID,
		Name:      m.Name,
		Photo:     m.Photo,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func publicationToModel(p domain.Publication) PublicationModel {
	return PublicationModel{
		ID:        p.ID,
		Name:      p.Name,
		Photo:     p.Photo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func publicationFromModel(m PublicationModel) domain.Publication {
	return domain.Publication{
		ID:        m.ID,
		Name:      m.Name,
		Photo:     m.Photo,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func reviewFromModel(m ReviewModel) domain.Review {
	return domain.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		BookID:    m.BookID,
		Content:   m.Content,
		Rating:    m.Rating,
		CreatedAt: m.CreatedAt,
	}
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Description:   b.Description,
		Photo:         b.Photo,
		Price:         b.Price,
		Discount:      b.Discount,
		Stock:         b.Stock,
		AuthorID:      b.AuthorID,
		CategoryID:    optionalID(b.CategoryID),
		PublicationID: optionalID(b.PublicationID),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func bookFromModel(m BookModel) domain.Book {
	book := domain.Book{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Photo:       m.Photo,
		Price:       m.Price,
		Discount:    m.Discount,
		Stock:       m.Stock,
		AuthorID:    m.AuthorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CategoryID != nil {
		book.CategoryID = *m.CategoryID
	}
	if m.PublicationID != nil {
		book.PublicationID = *m.PublicationID
	}
	if m.Author != nil {
		author := writerFromModel(*m.Author)
		book.Author = &author
	}
	if m.Category != nil {
		category := categoryFromModel(*m.Category)
		book.Category = &category
	}
	if m.Publication != nil {
		publication := publicationFromModel(*m.Publication)
		book.Publication = &publication
	}
	for _, review := range m.Reviews {
		book.Reviews = append(book.Reviews, reviewFromModel(review))
	}
	return book
}

func orderToModel(o domain.Order) OrderModel {
	details, _ := json.Marshal(o.OrderDetails)
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemModel{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		})
	}
	return OrderModel{
		ID:           o.ID,
		UserID:       o.UserID,
		Items:        items,
		OrderDetails: details,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func orderFromModel(m OrderModel) domain.Order {
	var details map[string]any
	if len(m.OrderDetails) > 0 {
		_ = json.Unmarshal(m.OrderDetails, &details)
	}
	order := domain.Order{
		ID:           m.ID,
		UserID:       m.UserID,
		OrderDetails: details,
		Status:       domain.OrderStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.User != nil {
		user := userFromModel(*m.User)
		order.User = &user
	}
	for _, item := range m.Items {
		orderItem := domain.OrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
		if item.Book != nil {
			book := bookFromModel(*item.Book)
			orderItem.Book = &book
		}
		order.Items = append(order.Items, orderItem)
	}
	return order
}

func resetTokenToModel(t domain.PasswordResetToken) ResetTokenModel {
	return ResetTokenModel{
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

func resetTokenFromModel(m ResetTokenModel) domain.PasswordResetToken {
	return domain.PasswordResetToken{
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}
