package permkit

import "github.com/puzpuzpuz/xsync/v3"

var internedPermissions = xsync.NewMapOf[string, string]()

// InternPermission returns a canonical shared instance of s. Nodes intern
// their normalized permission string so large node sets built from repeated
// text share backing storage. Equality never depends on interning.
func InternPermission(s string) string {
	v, _ := internedPermissions.LoadOrStore(s, s)
	return v
}
