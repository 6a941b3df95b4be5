package models

// Entity field names used by the normalizer.
const (
	FieldID                   = "Id"
	FieldModerationStatus     = "ModerationStatus"
	FieldAuthorID             = "AuthorId"
	FieldProductID            = "ProductId"
	FieldCategoryID           = "CategoryId"
	FieldQuestionID           = "QuestionId"
	FieldAnswerIDs            = "AnswerIds"
	FieldAuthor               = "Author"
	FieldProduct              = "Product"
	FieldCategory             = "Category"
	FieldQuestion             = "Question"
	FieldAnswers              = "Answers"
	FieldSubmissionTime       = "SubmissionTime"
	FieldLastModeratedTime    = "LastModeratedTime"
	FieldLastModificationTime = "LastModificationTime"
)

// Envelope field names.
const (
	FieldHasErrors    = "HasErrors"
	FieldTotalResults = "TotalResults"
	FieldLimit        = "Limit"
	FieldOffset       = "Offset"
	FieldResults      = "Results"
	FieldIncludes     = "Includes"
	FieldError        = "Error"
	FieldErrors       = "Errors"
	FieldCode         = "Code"
	FieldMessage      = "Message"
)

// TimestampFields lists the fields converted to time.Time during normalization.
var TimestampFields = []string{
	FieldSubmissionTime,
	FieldLastModeratedTime,
	FieldLastModificationTime,
}
