package server

import (
	"net/http"

	"bookshop/internal/app"
)

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	books, total, err := s.app.ListBooks(ctx,
		r.PathValue("pageNo"), r.PathValue("perPage"), r.PathValue("searchKeyword"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFacet(w, books, total)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	book, err := s.app.GetBook(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"book": book})
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var in app.BookInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	book, err := s.app.CreateBook(ctx, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"book": book})
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var in app.BookInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	book, err := s.app.UpdateBook(ctx, r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"book": book})
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.DeleteBook(ctx, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
}

func (s *Server) handleBooksByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	books, err := s.app.BooksByCategoryName(ctx, r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleBooksByPublication(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	books, err := s.app.BooksByPublicationName(ctx, r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleBooksByWriter(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	writer, books, total, err := s.app.BooksByWriterName(ctx,
		r.PathValue("name"), r.PathValue("pageNo"), r.PathValue("perPage"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"writer":     writer,
		"books":      books,
		"totalCount": total,
	})
}

func (s *Server) handleBooksByTitle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	books, err := s.app.SearchBooksByTitle(ctx, r.PathValue("title"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleRelatedBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	books, err := s.app.RelatedBooks(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleFilterBooks(w http.ResponseWriter, r *http.Request) {
	var in app.FilterBooksInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	books, total, err := s.app.FilterBooks(ctx, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFacet(w, books, total)
}

type namedEntityInput struct {
	Name      string `json:"name"`
	Biography string `json:"biography"`
	Photo     string `json:"photo"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	categories, total, err := s.app.ListCategories(ctx,
		r.PathValue("pageNo"), r.PathValue("perPage"), r.PathValue("searchKeyword"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFacet(w, categories, total)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	category, err := s.app.GetCategory(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"category": category})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in namedEntityInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	category, err := s.app.CreateCategory(ctx, in.Name, in.Photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"category": category})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in namedEntityInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	category, err := s.app.UpdateCategory(ctx, r.PathValue("id"), in.Name, in.Photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"category": category})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.DeleteCategory(ctx, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func (s *Server) handleListPublications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	publications, total, err := s.app.ListPublications(ctx,
		r.PathValue("pageNo"), r.PathValue("perPage"), r.PathValue("searchKeyword"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFacet(w, publications, total)
}

func (s *Server) handleGetPublication(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	publication, err := s.app.GetPublication(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"publication": publication})
}

func (s *Server) handleCreatePublication(w http.ResponseWriter, r *http.Request) {
	var in namedEntityInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	publication, err := s.app.CreatePublication(ctx, in.Name, in.Photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"publication": publication})
}

func (s *Server) handleUpdatePublication(w http.ResponseWriter, r *http.Request) {
	var in namedEntityInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	publication, err := s.app.UpdatePublication(ctx, r.PathValue("id"), in.Name, in.Photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"publication": publication})
}

func (s *Server) handleDeletePublication(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.DeletePublication(ctx, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "publication deleted"})
}

func (s *Server) handleListWriters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	writers, total, err := s.app.ListWriters(ctx,
		r.PathValue("pageNo"), r.PathValue("perPage"), r.PathValue("searchKeyword"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFacet(w, writers, total)
}

func (s *Server) handleGetWriter(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	writer, err := s.app.GetWriter(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"writer": writer})
}

func (s *Server) handleCreateWriter(w http.ResponseWriter, r *http.Request) {
	var in namedEntityInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	writer, err := s.app.CreateWriter(ctx, in.Name, in.Biography, in.Photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"writer": writer})
}

func (s *Server) handleUpdateWriter(w http.ResponseWriter, r *http.Request) {
	var in namedEntityInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	writer, err := s.app.UpdateWriter(ctx, r.PathValue("id"), in.Name, in.Biography, in.Photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"writer": writer})
}

func (s *Server) handleDeleteWriter(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.DeleteWriter(ctx, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "writer deleted"})
}
