package server

import (
	"net/http"

	"bookshop/internal/app"
	"bookshop/internal/util"
	"bookshop/pkg/domain"
)

type sessionResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	user, token, err := s.app.Register(ctx, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("security_event", "event", "user_registered", "userId", user.ID, "ip", util.ClientIP(r))
	s.writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	user, token, err := s.app.Login(ctx, in.Email, in.Password)
	if err != nil {
		s.logger.Warn("security_event", "event", "login_failed", "email", in.Email, "ip", util.ClientIP(r))
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("security_event", "event", "login_succeeded", "userId", user.ID, "ip", util.ClientIP(r))
	s.writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.ForgotPassword(ctx, in.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a reset mail is on its way",
	})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.ResetPassword(ctx, in.Token, in.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (s *Server) handleConfirmPassword(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	var in struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.ConfirmPassword(ctx, user.ID, in.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "password confirmed"})
}

func (s *Server) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	requester, _ := userFrom(r.Context())
	id := r.PathValue("id")
	// Customers may only read their own profile.
	if requester.Role != domain.RoleAdmin && requester.ID != id {
		s.writeError(w, r, app.ErrForbidden)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	user, err := s.app.GetUser(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	var in app.UpdateProfileInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	updated, err := s.app.UpdateProfile(ctx, user.ID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.app.DeleteUser(ctx, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (s *Server) handleChangeAdminStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Admin bool `json:"admin"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	user, err := s.app.ChangeAdminStatus(ctx, r.PathValue("id"), in.Admin)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	users, total, err := s.app.ListUsers(ctx, domain.RoleCustomer,
		r.PathValue("pageNo"), r.PathValue("perPage"), r.PathValue("searchKeyword"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFacet(w, users, total)
}
