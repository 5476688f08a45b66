// Package wizard resolves and advances the three-step record flow. The
// whole state lives in the URL query ("step" and "id"), so every function
// here is pure and safe to recompute on each request.
package wizard

import (
	"errors"
	"net/url"

	"fabtech_dashboard/internal/models"
)

type Step string

const (
	BasicDetails        Step = "basic-details"
	ProductMeasurements Step = "product-measurements"
	ProcessDetails      Step = "process-details"
)

// Flow distinguishes the add page, where the parent id travels in the query
// and may not exist yet, from the edit page, where it is part of the path.
type Flow string

const (
	FlowCreate Flow = "create"
	FlowUpdate Flow = "update"
)

const (
	ParamStep = "step"
	ParamID   = "id"
)

var ErrUnknownStep = errors.New("unknown wizard step")

func ParseStep(s string) (Step, error) {
	switch Step(s) {
	case BasicDetails, ProductMeasurements, ProcessDetails:
		return Step(s), nil
	}
	return "", ErrUnknownStep
}

func ParseFlow(s string) Flow {
	if Flow(s) == FlowUpdate {
		return FlowUpdate
	}
	return FlowCreate
}

// Resolve returns the active step. A missing or unrecognised step falls back
// to BasicDetails, and so does any step in the create flow while no parent id
// is known: later steps are scoped by that id.
func Resolve(query url.Values, flow Flow, parentKnown bool) Step {
	step, err := ParseStep(query.Get(ParamStep))
	if err != nil {
		return BasicDetails
	}
	if flow == FlowCreate && !parentKnown {
		return BasicDetails
	}
	return step
}

// ResolveQuery is Resolve for the create flow reading the id from the query
// itself, which is how the add page is deep-linked.
func ResolveQuery(query url.Values) Step {
	return Resolve(query, FlowCreate, query.Get(ParamID) != "")
}

// AfterBasicDetails is the query for step 2 once step 1 was saved. A created
// parent's id is written into the query; other parameters are kept.
func AfterBasicDetails(query url.Values, flow Flow, parentID string) url.Values {
	next := clone(query)
	next.Set(ParamStep, string(ProductMeasurements))
	if flow == FlowCreate {
		next.Set(ParamID, parentID)
	}
	return next
}

// AfterMeasurements is the query for step 3, used both on completion and on
// skip. The id is carried forward unchanged.
func AfterMeasurements(query url.Values) url.Values {
	next := clone(query)
	next.Set(ParamStep, string(ProcessDetails))
	return next
}

func URL(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// Dashboard is where a flow for table ends.
func Dashboard(table string) string {
	if table == models.TableFinalisedMeasurements {
		return "/finalised-measurements"
	}
	return "/"
}

// Page is the path of the flow's own page for table. Both tables get an add
// and an edit page here, although the dashboard only links marketing/add and
// finalised-measurements/edit; the other two serve deep links into either
// flow from this API.
func Page(table string, flow Flow, parentID string) string {
	base := "/marketing"
	if table == models.TableFinalisedMeasurements {
		base = "/finalised-measurements"
	}
	if flow == FlowUpdate {
		return base + "/edit/" + url.PathEscape(parentID)
	}
	return base + "/add"
}

func clone(query url.Values) url.Values {
	out := make(url.Values, len(query)+2)
	for k, v := range query {
		out[k] = append([]string(nil), v...)
	}
	return out
}
