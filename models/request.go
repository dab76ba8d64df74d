package models

// ConvertOptions controls one conversion. The zero value is not usable
// directly; call Defaults first (PreserveImages and UseCache default true).
type ConvertOptions struct {
	// Bypass enables tiered strategy racing. When false only the direct
	// fetch is tried.
	Bypass bool `json:"bypass,omitempty"`

	// Strategy forces a single strategy, skipping the tiered logic.
	// Empty or "auto" means automatic selection.
	Strategy string `json:"strategy,omitempty"`

	// PreserveImages keeps <img> in the Markdown output. When false,
	// images, figures, and iframes are elided entirely.
	PreserveImages *bool `json:"preserve_images,omitempty"`

	// JSONFormat wraps the output in a JSON envelope
	// {url, title, date, content, strategy, author?}.
	JSONFormat bool `json:"json_format,omitempty"`

	// UseCache consults and populates the process-wide URL cache.
	UseCache *bool `json:"use_cache,omitempty"`

	// Selector optionally narrows the fetched HTML to the elements
	// matching a CSS selector before extraction.
	Selector string `json:"selector,omitempty"`
}

// Defaults applies default values to unset fields.
func (o *ConvertOptions) Defaults() {
	if o.PreserveImages == nil {
		t := true
		o.PreserveImages = &t
	}
	if o.UseCache == nil {
		t := true
		o.UseCache = &t
	}
	if o.Strategy == "auto" {
		o.Strategy = ""
	}
}

// ConvertRequest is the payload for POST /api/v1/convert.
type ConvertRequest struct {
	// URL is the target page. Required.
	URL string `json:"url" binding:"required,url"`

	ConvertOptions
}
