package models

// Permission represents a single permission action
type Permission string

const (
	// Catalog permissions
	PermissionCreateProduct Permission = "create:product"
	PermissionUpdateProduct Permission = "update:product"
	PermissionDeleteProduct Permission = "delete:product"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[string][]Permission{
	"admin": {
		PermissionCreateProduct,
		PermissionUpdateProduct,
		PermissionDeleteProduct,
	},
	"user": {},
}
