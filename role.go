package coverauth

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of access levels known to the engine, totally
// ordered by integer rank. Roles are only ever compared with >=; no code
// branches on a specific role value.
//
// The zero value is not a valid role, so an unparsed or forgotten role can
// never satisfy a gate.
type Role uint8

const (
	// RoleViewer may read published covers and assets.
	RoleViewer Role = iota + 1
	// RoleEditor may additionally create and modify covers, assets, and
	// folders.
	RoleEditor
	// RoleAdmin may additionally manage users and trigger backup sync.
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleViewer: "viewer",
	RoleEditor: "editor",
	RoleAdmin:  "admin",
}

var rolesByName = map[string]Role{
	"viewer": RoleViewer,
	"editor": RoleEditor,
	"admin":  RoleAdmin,
}

// ParseRole maps a role name to its [Role]. Unknown names fail with
// [ErrInvalidRole] at construction time rather than silently ranking as
// zero at comparison time.
func ParseRole(name string) (Role, error) {
	role, ok := rolesByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, name)
	}
	return role, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r satisfies a gate requiring minimum. The
// comparison is purely numeric rank.
func (r Role) AtLeast(minimum Role) bool {
	return r >= minimum
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// MarshalJSON encodes the role by name.
func (r Role) MarshalJSON() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, uint8(r))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a role name, rejecting anything outside the closed
// set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	role, err := ParseRole(name)
	if err != nil {
		return err
	}
	*r = role
	return nil
}
