package views

import "github.com/eringen/gridplan/planner"

// PlannerView is everything the page and the planner fragment render.
type PlannerView struct {
	Title     string
	CSRFToken string
	State     planner.State
	// Editing marks profile fields that have an inline editor open.
	Editing map[planner.Field]bool
}

// FieldView is one inline-editable profile field.
type FieldView struct {
	Field planner.Field
	Value string
}

// fieldLabels are the accessible labels for each editable field.
var fieldLabels = map[planner.Field]string{
	planner.FieldUsername:  "Username",
	planner.FieldPosts:     "Posts",
	planner.FieldFollowers: "Followers",
	planner.FieldFollowing: "Following",
	planner.FieldName:      "Name",
	planner.FieldCategory:  "Category",
	planner.FieldBio:       "Bio",
	planner.FieldLink:      "Link",
}

// Label returns the human label of the field.
func (f FieldView) Label() string {
	if l, ok := fieldLabels[f.Field]; ok {
		return l
	}
	return string(f.Field)
}
