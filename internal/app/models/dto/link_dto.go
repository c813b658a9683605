package dto

// RequestLinkRequest asks to associate a parent account with a roster entry.
// ParentID may be omitted when the caller is an authenticated parent; the
// controller then uses the actor's own account.
type RequestLinkRequest struct {
	ParentID     int64  `json:"parentId" example:"7"`
	Relationship string `json:"relationship" binding:"required" example:"Mother"`
}

// RejectLinkRequest rejects a pending link with a mandatory reason
type RejectLinkRequest struct {
	Reason string `json:"reason" binding:"required" example:"ID document does not match"`
}

// SweepResponse reports how many expired rejections were cleared
type SweepResponse struct {
	Cleared int64 `json:"cleared" example:"3"`
}
