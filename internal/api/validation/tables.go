package validation

// Rule tables, one per endpoint. Update tables carry no Required rules so an
// absent field leaves the stored value unchanged.

var idParam = Rule{Field: "id", Source: Param, Required: true, Kind: Integer, Tag: "gt=0", Message: "ID must be a positive integer"}

var Register = []Rule{
	{Field: "username", Required: true, Kind: String, Message: "Username is required"},
	{Field: "username", Kind: String, Tag: "max=255", Message: "Username must be less than 255 characters"},
	{Field: "fullname", Required: true, Kind: String, Message: "Name is required"},
	{Field: "fullname", Kind: String, Tag: "max=255", Message: "Name must be less than 255 characters"},
	{Field: "email", Required: true, Kind: Email, Message: "Invalid email format"},
	{Field: "password", Required: true, Kind: Password, Tag: "min=6", Message: "Password must be at least 6 characters long"},
}

var Login = []Rule{
	{Field: "email", Required: true, Kind: Email, Message: "Invalid email format"},
	{Field: "password", Required: true, Kind: Password, Message: "Password is required"},
}

var CreateAuthor = []Rule{
	{Field: "name", Required: true, Kind: String, Message: "Name is required"},
	{Field: "name", Kind: String, Tag: "max=255", Message: "Name must be less than 255 characters"},
	{Field: "bio", Kind: String, Message: "Bio must be a string"},
	{Field: "birthdate", Required: true, Kind: Date, Message: "Birthdate must be a valid date (YYYY-MM-DD)"},
}

var UpdateAuthor = []Rule{
	idParam,
	{Field: "name", Kind: String, Tag: "required", Message: "Name is required"},
	{Field: "name", Kind: String, Tag: "max=255", Message: "Name must be less than 255 characters"},
	{Field: "bio", Kind: String, Message: "Bio must be a string"},
	{Field: "birthdate", Kind: Date, Message: "Birthdate must be a valid date (YYYY-MM-DD)"},
}

var CreateBook = []Rule{
	{Field: "title", Required: true, Kind: String, Message: "Title is required"},
	{Field: "title", Kind: String, Tag: "max=255", Message: "Title must be less than 255 characters"},
	{Field: "description", Kind: String, Message: "Description must be a string"},
	{Field: "published_date", Required: true, Kind: Date, Message: "Published date must be a valid date (YYYY-MM-DD)"},
	{Field: "author_id", Required: true, Kind: Integer, Tag: "gt=0", Message: "Author ID must be a positive number"},
}

var UpdateBook = []Rule{
	idParam,
	{Field: "title", Kind: String, Tag: "required", Message: "Title is required"},
	{Field: "title", Kind: String, Tag: "max=255", Message: "Title must be less than 255 characters"},
	{Field: "description", Kind: String, Message: "Description must be a string"},
	{Field: "published_date", Kind: Date, Message: "Published date must be a valid date (YYYY-MM-DD)"},
	{Field: "author_id", Kind: Integer, Tag: "gt=0", Message: "Author ID must be a positive number"},
}

// ByID guards every route addressing a single entity.
var ByID = []Rule{idParam}

var ListQuery = []Rule{
	{Field: "page", Source: Query, Kind: Integer, Tag: "min=1", Message: "Page must be a positive integer"},
	{Field: "limit", Source: Query, Kind: Integer, Tag: "min=1,max=100", Message: "Limit must be between 1 and 100"},
}

var ListBooksQuery = append(append([]Rule{}, ListQuery...),
	Rule{Field: "author_id", Source: Query, Kind: Integer, Tag: "gt=0", Message: "Author ID must be a positive number"},
)

var SearchQuery = []Rule{
	{Field: "author", Source: Query, Kind: String, Tag: "max=255", Message: "Author must be less than 255 characters"},
	{Field: "title", Source: Query, Kind: String, Tag: "max=255", Message: "Title must be less than 255 characters"},
}
