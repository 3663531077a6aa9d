package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"course:enroll",
		"lesson:view",
		"lesson:complete",
		"quiz:view",
		"quiz:attempt",
		"progress:view-own",
	},
	"instructor": {
		"course:view",
		"course:create",
		"lesson:view",
		"lesson:create",
		"quiz:view",
		"quiz:create",
		"progress:view-all",
	},
	"admin": {
		"*", // everything
	},
}
