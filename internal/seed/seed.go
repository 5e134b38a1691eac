package seed

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Store 由 *repository.Repository 实现
type Store interface {
	CreateUser(user *domain.User) error
	EnsureTaskCategories(names []string) error
	ReplaceTaskTemplates(templates []domain.TaskTemplate) error
}

type CatalogTask struct {
	Category string `yaml:"category"`
	Label    string `yaml:"label"`
}

type CatalogShift struct {
	Shift string        `yaml:"shift"`
	Tasks []CatalogTask `yaml:"tasks"`
}

// Catalog 是清单模板目录文件的内容
type Catalog struct {
	Categories []string       `yaml:"categories"`
	Templates  []CatalogShift `yaml:"templates"`
}

// LoadCatalog 读取并校验 YAML 格式的模板目录，任务中出现的类别会自动加入类别列表
func LoadCatalog(r io.Reader) (*Catalog, error) {
	catalog := &Catalog{}
	if err := yaml.NewDecoder(r).Decode(catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	shiftTypes := checklist.ShiftTypes()
	for _, s := range catalog.Templates {
		if !slices.Contains(shiftTypes, s.Shift) {
			return nil, fmt.Errorf("unknown shift type %q", s.Shift)
		}
		for i, t := range s.Tasks {
			if strings.TrimSpace(t.Label) == "" {
				return nil, fmt.Errorf("%s: task %d has no label", s.Shift, i+1)
			}
			if strings.TrimSpace(t.Category) == "" {
				return nil, fmt.Errorf("%s: task %q has no category", s.Shift, t.Label)
			}
			if !slices.Contains(catalog.Categories, t.Category) {
				catalog.Categories = append(catalog.Categories, t.Category)
			}
		}
	}

	return catalog, nil
}

// TaskTemplates 按文件中的顺序展开为模板记录
func (c *Catalog) TaskTemplates() []domain.TaskTemplate {
	templates := make([]domain.TaskTemplate, 0)
	for _, s := range c.Templates {
		for _, t := range s.Tasks {
			templates = append(templates, domain.TaskTemplate{
				Label:     strings.TrimSpace(t.Label),
				Category:  t.Category,
				ShiftType: s.Shift,
			})
		}
	}
	return templates
}

// ApplyCatalog 补齐类别并整体替换任务模板
func ApplyCatalog(store Store, catalog *Catalog) error {
	if err := store.EnsureTaskCategories(catalog.Categories); err != nil {
		return fmt.Errorf("ensure categories: %w", err)
	}
	if err := store.ReplaceTaskTemplates(catalog.TaskTemplates()); err != nil {
		return fmt.Errorf("replace task templates: %w", err)
	}
	return nil
}

type Admin struct {
	Username string
	Password string
	Name     string
	Email    string
}

// EnsureInitialAdmin 创建初始管理员，用户名已存在时返回 false
func EnsureInitialAdmin(store Store, admin Admin) (bool, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     admin.Username,
		PasswordHash: string(passwordHash),
		Name:         admin.Name,
		Email:        admin.Email,
		Role:         domain.RoleFrontOfficeManager,
		Initials:     utils.Initials(admin.Name),
		Color:        utils.GenerateRandomColor(),
	}
	if err := store.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "users_username_key" {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
