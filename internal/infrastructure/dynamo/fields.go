package dynamo

// DynamoDB attribute names used in key and condition expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	attrPendingKey = "pending_key"
	attrVersion    = "version"
	attrExpiresAt  = "expires_at"
	attrUserID     = "user_id"
	attrEmail      = "email"
	attrUpdatedAt  = "updated_at"
	attrOwner      = "owner_id"

	emailGuardPrefix = "email#"

	indexEmail = "email-index"
)
