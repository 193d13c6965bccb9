package classifier

// Category is the display class assigned to one output line.
type Category string

// Line categories. Neutral is assigned when no rule matches.
const (
	CategoryNeutral           Category = "neutral"
	CategoryError             Category = "error"
	CategoryInfo              Category = "info"
	CategoryStatusSuccess     Category = "status-success"
	CategoryStatusRedirect    Category = "status-redirect"
	CategoryStatusAuth        Category = "status-auth"
	CategoryStatusForbidden   Category = "status-forbidden"
	CategoryStatusServerError Category = "status-server-error"
	CategoryHostUp            Category = "host-up"
	CategoryPortOpen          Category = "port-open"
	CategoryPortClosed        Category = "port-closed"
	CategoryPortFiltered      Category = "port-filtered"
	CategoryServiceDetail     Category = "service-detail"
	CategoryFlaggedFinding    Category = "flagged-finding"
	CategoryServerBanner      Category = "server-banner"
	CategoryCrackedCredential Category = "cracked-credential"
	CategoryProgressStatus    Category = "progress-status"
	CategoryDatabaseDetail    Category = "database-detail"
	CategoryExtractedData     Category = "extracted-data"
)

// AllCategories lists every category in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryNeutral,
		CategoryError,
		CategoryInfo,
		CategoryStatusSuccess,
		CategoryStatusRedirect,
		CategoryStatusAuth,
		CategoryStatusForbidden,
		CategoryStatusServerError,
		CategoryHostUp,
		CategoryPortOpen,
		CategoryPortClosed,
		CategoryPortFiltered,
		CategoryServiceDetail,
		CategoryFlaggedFinding,
		CategoryServerBanner,
		CategoryCrackedCredential,
		CategoryProgressStatus,
		CategoryDatabaseDetail,
		CategoryExtractedData,
	}
}
