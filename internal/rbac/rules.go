package rbac

// Default policy. Tutors and students receive roster subsets scoped by the
// store; these permissions only gate the surface.
var RolePermissions = map[string][]string{
	"student": {
		"average:view-own",
	},
	"tutor": {
		"enrollment:list",
		"average:view",
	},
	"teacher": {
		"enrollment:list",
		"assignment:list",
		"grade:record",
		"average:view",
		"average:persist",
		"report:view",
	},
	"admin": {
		"*", // everything
	},
}
