package auth

import "github.com/serviyapp/serviyapp-api/models"

// protectedFields may only be changed by an Admin
var protectedFields = []string{"role", "status", "email", "is_completed"}

// HasRole reports whether the claims carry one of the allowed roles.
// An empty allow-list admits any authenticated principal.
func HasRole(claims *Claims, allowed ...models.Role) bool {
	if claims == nil {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if claims.Role == role {
			return true
		}
	}
	return false
}

// CanActOn reports whether the caller may act on the record identified by targetID
func CanActOn(claims *Claims, targetID string) bool {
	if claims == nil {
		return false
	}
	return claims.Role == models.RoleAdmin || claims.ID == targetID
}

// SanitizeUpdate returns a copy of fields without the protected keys unless
// the caller is an Admin. The id column is never updatable.
func SanitizeUpdate(claims *Claims, fields map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		clean[key] = value
	}
	delete(clean, "id")

	if claims != nil && claims.Role == models.RoleAdmin {
		return clean
	}
	for _, key := range protectedFields {
		delete(clean, key)
	}
	return clean
}
