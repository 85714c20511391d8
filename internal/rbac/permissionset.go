package rbac

import "sort"

// PermissionSet — множество имен разрешений. Объединения и вычитания
// при вычислении эффективных прав работают в семантике множеств:
// разрешение, достижимое через несколько ролей, учитывается один раз.
type PermissionSet map[string]struct{}

func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s PermissionSet) Add(name string) {
	s[name] = struct{}{}
}

func (s PermissionSet) Remove(name string) {
	delete(s, name)
}

// Clone возвращает независимую копию множества
func (s PermissionSet) Clone() PermissionSet {
	clone := make(PermissionSet, len(s))
	for name := range s {
		clone[name] = struct{}{}
	}
	return clone
}

// Names возвращает отсортированный список имен разрешений
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
