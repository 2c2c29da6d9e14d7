package stubserver

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/gym-checkin/users"
)

func (s *Server) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	}
}

func (s *Server) listUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.users.List()
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) createUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.NewUser
		if !readJSON(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)

		switch {
		case req.Username == "":
			writeFieldErrors(w, map[string]string{"username": "This field may not be blank."})
			return
		case len(req.Password) < users.MinPasswordLength:
			writeFieldErrors(w, map[string]string{"password": "This password is too short. It must contain at least 8 characters."})
			return
		case req.Password != req.PasswordConfirm:
			writeFieldErrors(w, map[string]string{"password_confirm": "Passwords do not match."})
			return
		}
		if _, err := s.users.GetByUsername(req.Username); err == nil {
			writeFieldErrors(w, map[string]string{"username": "A user with that username already exists."})
			return
		}

		u, err := s.AddUser(req.Username, req.Password, false, false)
		if err != nil {
			writeValidation(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func (s *Server) patchUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd users.Update
		if !readJSON(w, r, &upd) {
			return
		}

		target, err := s.users.GetByID(pathID(r))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}

		changed := *target
		if upd.Username != nil {
			changed.Username = strings.TrimSpace(*upd.Username)
		}
		if upd.Email != nil {
			changed.Email = *upd.Email
		}
		if upd.IsStaff != nil {
			changed.IsStaff = *upd.IsStaff
		}
		if upd.IsAdmin != nil {
			changed.IsAdmin = *upd.IsAdmin
		}
		if err := s.users.Upsert(&changed); err != nil {
			writeFieldErrors(w, map[string]string{"username": "A user with that username already exists."})
			return
		}
		writeJSON(w, http.StatusOK, changed)
	}
}

// deleteUserHandler refuses to delete the caller or a superuser.
func (s *Server) deleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := s.users.GetByID(pathID(r))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		if !users.CanDelete(currentUser(r), target) {
			writeDetail(w, http.StatusForbidden, "This user cannot be deleted.")
			return
		}
		if err := s.users.Delete(target.ID); err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
