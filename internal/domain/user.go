package domain

import (
	"time"
)

type Role string

const (
	RoleFrontOfficeManager Role = "Front Office Manager"
	RoleAsstFOM            Role = "Asst. FOM"
	RoleSeniorGSA          Role = "Senior GSA"
	RoleGSA                Role = "GSA"
	RoleManagement         Role = "Management"
)

// 可以重开已提交班次、维护清单模板和排班的角色
var ManagerRoles = []Role{RoleFrontOfficeManager, RoleAsstFOM}

var Roles = []Role{RoleFrontOfficeManager, RoleAsstFOM, RoleSeniorGSA, RoleGSA, RoleManagement}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) IsManager() bool {
	return r == RoleFrontOfficeManager || r == RoleAsstFOM
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Initials     string    `json:"initials"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
