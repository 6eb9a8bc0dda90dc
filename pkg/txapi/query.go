package txapi

// ListOptions expresses the controls of a list call: paging, ordering,
// free-text matching, and model-field filters. Zero fields fall back to
// the backend defaults when the options are serialized.
type ListOptions struct {
	Page       int
	PageLength int
	SortBy     string
	Match      string
	Filters    Args
}

// NewListOptions creates empty list options.
func NewListOptions() *ListOptions {
	return &ListOptions{
		Filters: Args{},
	}
}

// WithPage sets the page to fetch.
func (o *ListOptions) WithPage(page int) *ListOptions {
	o.Page = page

	return o
}

// WithPageLength sets the number of records per page.
func (o *ListOptions) WithPageLength(length int) *ListOptions {
	o.PageLength = length

	return o
}

// WithSortBy sets the model field to order results by.
func (o *ListOptions) WithSortBy(field string) *ListOptions {
	o.SortBy = field

	return o
}

// WithMatch sets free text that must match some model field.
func (o *ListOptions) WithMatch(text string) *ListOptions {
	o.Match = text

	return o
}

// WithFilter adds an exact-match filter on a model field.
func (o *ListOptions) WithFilter(key string, value any) *ListOptions {
	if o.Filters == nil {
		o.Filters = Args{}
	}

	o.Filters[key] = value

	return o
}

// ToArgs merges controls and filters into one argument bag. Unset
// controls are filled with the backend defaults; the match text is only
// included when one was given. Control values win over filter keys that
// shadow them.
func (o *ListOptions) ToArgs() Args {
	if o == nil {
		o = NewListOptions()
	}

	args := make(Args, len(o.Filters)+4)
	for key, value := range o.Filters {
		args[key] = value
	}

	page := o.Page
	if page <= 0 {
		page = DefaultPage
	}

	length := o.PageLength
	if length <= 0 {
		length = DefaultPageLength
	}

	sortBy := o.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}

	args[ControlPage] = page
	args[ControlPageLength] = length
	args[ControlSortBy] = sortBy

	if o.Match != "" {
		args[ControlQuery] = o.Match
	}

	return args
}

// clone copies the options so per-page adjustments do not leak back to
// the caller.
func (o *ListOptions) clone() *ListOptions {
	if o == nil {
		return NewListOptions()
	}

	out := &ListOptions{
		Page:       o.Page,
		PageLength: o.PageLength,
		SortBy:     o.SortBy,
		Match:      o.Match,
		Filters:    make(Args, len(o.Filters)),
	}
	for key, value := range o.Filters {
		out.Filters[key] = value
	}

	return out
}
