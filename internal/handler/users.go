package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// userConstraintMessage 把唯一约束冲突转换为用户可读的提示，其他错误返回空字符串
func userConstraintMessage(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return "Username already exists"
	case "users_email_key":
		return "Email already exists"
	default:
		return ""
	}
}

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Users loaded", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,max=64"`
		Name     string `json:"name" validate:"required,max=128"`
		Email    string `json:"email" validate:"omitempty,email"`
		Role     string `json:"role" validate:"required"`
		Password string `json:"password" validate:"omitempty,min=8"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !domain.Role(req.Role).Valid() {
		h.errorResponse(w, r, "Invalid role")
		return
	}

	// 没有邮箱的用户无法收到随机密码，必须由管理员指定
	password := req.Password
	if password == "" {
		if req.Email == "" {
			h.errorResponse(w, r, "Password is required when no email is set")
			return
		}
		password = utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Role:         domain.Role(req.Role),
		Initials:     utils.Initials(req.Name),
		Color:        utils.GenerateRandomColor(),
	}

	if err := h.repository.CreateUser(user); err != nil {
		if msg := userConstraintMessage(err); msg != "" {
			h.errorResponse(w, r, msg)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if user.Email != "" {
		if err := h.mailer.Publish(domain.MailMessage{
			Type: domain.MailTypeCreateUser,
			To:   user.Email,
			Data: domain.CreateUserMailData{
				Name:     user.Name,
				Username: user.Username,
				Password: password,
			},
		}); err != nil {
			// 用户已经创建成功，邮件失败只记录日志
			slog.Error("无法发送账户信息邮件", "username", user.Username, "error", err)
		}
	}

	h.successResponse(w, r, "User created", user)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.successResponse(w, r, "User loaded", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username *string `json:"username" validate:"omitempty,min=1,max=64"`
		Name     *string `json:"name" validate:"omitempty,min=1,max=128"`
		Email    *string `json:"email" validate:"omitempty"`
		Role     *string `json:"role"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Email != nil && *req.Email != "" {
		if err := h.validate.Var(*req.Email, "email"); err != nil {
			h.errorResponse(w, r, "Invalid email")
			return
		}
	}
	if req.Role != nil && !domain.Role(*req.Role).Valid() {
		h.errorResponse(w, r, "Invalid role")
		return
	}

	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
		// 姓名变化时同步更新缩写
		user.Initials = utils.Initials(user.Name)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}

	if err := h.repository.UpdateUser(user); err != nil {
		if msg := userConstraintMessage(err); msg != "" {
			h.errorResponse(w, r, msg)
			return
		}
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Failed to update user, please try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "User updated", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.repository.DeleteUser(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.sessions.Clear(r.Context(), user.ID); err != nil {
		slog.Warn("无法清除已删除用户的会话", "userID", user.ID, "error", err)
	}

	h.successResponse(w, r, "User deleted", nil)
}

func (h *Handler) UpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	var req struct {
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user.PasswordHash = string(hashedPassword)
	if err := h.repository.UpdateUser(user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Password updated", nil)
}
