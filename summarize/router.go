package summarize

import (
	"context"
	"fmt"

	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/llm"
)

// remainderKey collects passages lacking the grouping metadata field.
const remainderKey = ""

// Router groups passages by a metadata field and reduces each group
// independently, returning one synthesized passage per group.
type Router struct {
	reducer         *Reducer
	groupField      string
	returnRemaining bool
}

// NewRouter creates a router that groups by document id and reduces with
// the given prompts.
func NewRouter(client *llm.Client, prompts Prompts) *Router {
	return &Router{
		reducer:    NewReducer(client, prompts),
		groupField: docstore.MetaDocID,
	}
}

// WithGroupField overrides the metadata field used for grouping.
func (r *Router) WithGroupField(field string) *Router {
	r.groupField = field
	return r
}

// WithReturnRemaining controls what happens to passages lacking the
// grouping field: surfaced as their own group when true, silently
// dropped when false (the default). Dropping changes output cardinality.
func (r *Router) WithReturnRemaining(b bool) *Router {
	r.returnRemaining = b
	return r
}

// WithWindowSize overrides the reducer's window size.
func (r *Router) WithWindowSize(n int) *Router {
	r.reducer.WithWindowSize(n)
	return r
}

// WithCallOptions sets per-call generation overrides for reduction calls.
func (r *Router) WithCallOptions(opts *llm.CallOptions) *Router {
	r.reducer.WithCallOptions(opts)
	return r
}

// Run groups the passages, sorts each group by split index, reduces each
// group and returns one passage per group in first-seen group order.
func (r *Router) Run(ctx context.Context, passages []docstore.Passage) ([]docstore.Passage, error) {
	groups := make(map[string][]docstore.Passage)
	var order []string

	for _, p := range passages {
		key, ok := p.MetaValue(r.groupField)
		if !ok || key == "" {
			if !r.returnRemaining {
				continue
			}
			key = remainderKey
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	var out []docstore.Passage
	for _, key := range order {
		group := groups[key]
		docstore.SortBySplitID(group)

		reduced, err := r.reducer.Reduce(ctx, group)
		if err != nil {
			return nil, fmt.Errorf("reducing group %q: %w", key, err)
		}

		p := docstore.Passage{
			Content: reduced,
			Meta:    map[string]string{r.groupField: key},
		}
		if r.groupField == docstore.MetaDocID {
			p.DocID = key
		}
		out = append(out, p)
	}
	return out, nil
}
