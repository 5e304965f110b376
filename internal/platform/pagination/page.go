// Package pagination normalizes list request paging.
package pagination

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}
