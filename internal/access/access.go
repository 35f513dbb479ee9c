// Package access holds the static role to module map that gates every route.
package access

import (
	"sort"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
)

type Module string

const (
	Dashboard   Module = "dashboard"
	Inventory   Module = "inventory"
	Sales       Module = "sales"
	Purchases   Module = "purchases"
	Customers   Module = "customers"
	Suppliers   Module = "suppliers"
	Tasks       Module = "tasks"
	Employees   Module = "employees"
	Accounting  Module = "accounting"
	Bank        Module = "bank"
	Reports     Module = "reports"
	Audit       Module = "audit"
	Users       Module = "users"
	Settings    Module = "settings"
	Maintenance Module = "maintenance"
)

var userModules = []Module{Dashboard, Inventory, Sales, Purchases, Customers, Suppliers, Tasks}

var adminOnly = []Module{Employees, Accounting, Bank, Reports, Audit, Users, Settings, Maintenance}

var roleModules = map[string]map[Module]bool{
	model.RoleUser:  set(userModules),
	model.RoleAdmin: set(append(append([]Module{}, userModules...), adminOnly...)),
}

func set(mods []Module) map[Module]bool {
	out := make(map[Module]bool, len(mods))
	for _, m := range mods {
		out[m] = true
	}
	return out
}

// AllowedModules returns the modules a role may open. Unknown roles get none.
func AllowedModules(role string) map[Module]bool {
	mods := roleModules[role]
	out := make(map[Module]bool, len(mods))
	for m := range mods {
		out[m] = true
	}
	return out
}

// ModuleList is AllowedModules as a sorted slice, for API responses
func ModuleList(role string) []string {
	mods := roleModules[role]
	out := make([]string, 0, len(mods))
	for m := range mods {
		out = append(out, string(m))
	}
	sort.Strings(out)
	return out
}

// Authorize returns an access denied error unless role may open module
func Authorize(role string, module Module) error {
	if roleModules[role][module] {
		return nil
	}
	return apperr.AccessDenied(role, string(module))
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	_, ok := roleModules[role]
	return ok
}
