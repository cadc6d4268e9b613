package validation

// SchemaID names a request payload schema. The set is closed; NewRegistry
// refuses to start unless every SchemaID below has a schema.
type SchemaID string

const (
	SchemaSignup      SchemaID = "signup"
	SchemaLogin       SchemaID = "login"
	SchemaSauce       SchemaID = "sauce"
	SchemaSauceUpdate SchemaID = "sauceUpdate"
	SchemaVote        SchemaID = "vote"
)

// SchemaIDs lists every schema the registry must provide.
var SchemaIDs = []SchemaID{SchemaSignup, SchemaLogin, SchemaSauce, SchemaSauceUpdate, SchemaVote}

// SignupInput is the body of POST /api/auth/signup. bcrypt only hashes the
// first 72 bytes of a password and refuses longer input.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,strongpassword,maxbytes=72"`
}

// LoginInput is the body of POST /api/auth/login. The password is only
// checked for presence so that policy changes never lock out old accounts.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SauceInput is the sauce description submitted on creation.
// Ownership, image and vote fields are server controlled and never decoded.
type SauceInput struct {
	Name         string `json:"name" validate:"required,notblank,min=1,max=100"`
	Manufacturer string `json:"manufacturer" validate:"required,notblank,min=1,max=100"`
	Description  string `json:"description" validate:"required,notblank,min=1,max=1000"`
	MainPepper   string `json:"mainPepper" validate:"required,notblank,min=1,max=100"`
	Heat         *int   `json:"heat" validate:"required,min=1,max=10"`
}

// SauceUpdateInput carries a partial sauce description; absent fields are
// left untouched.
type SauceUpdateInput struct {
	Name         *string `json:"name" validate:"omitempty,notblank,min=1,max=100"`
	Manufacturer *string `json:"manufacturer" validate:"omitempty,notblank,min=1,max=100"`
	Description  *string `json:"description" validate:"omitempty,notblank,min=1,max=1000"`
	MainPepper   *string `json:"mainPepper" validate:"omitempty,notblank,min=1,max=100"`
	Heat         *int    `json:"heat" validate:"omitempty,min=1,max=10"`
}

// Empty reports whether no field is set.
func (in SauceUpdateInput) Empty() bool {
	return in.Name == nil && in.Manufacturer == nil && in.Description == nil &&
		in.MainPepper == nil && in.Heat == nil
}

// VoteInput is the body of POST /api/sauces/:id/like.
type VoteInput struct {
	Like *int `json:"like" validate:"required,oneof=-1 0 1"`
}

func defaultSchemas() map[SchemaID]func() any {
	return map[SchemaID]func() any{
		SchemaSignup:      func() any { return &SignupInput{} },
		SchemaLogin:       func() any { return &LoginInput{} },
		SchemaSauce:       func() any { return &SauceInput{} },
		SchemaSauceUpdate: func() any { return &SauceUpdateInput{} },
		SchemaVote:        func() any { return &VoteInput{} },
	}
}
