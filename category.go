package preview

// Category is the settings topic whose change triggered a preview request.
type Category string

// Settings categories known to the preview.
const (
	CategoryGeneral     Category = "general"
	CategoryBraces      Category = "braces"
	CategoryWhitespace  Category = "whitespace"
	CategoryIndentation Category = "indentation"
	CategoryWrapping    Category = "wrapping"
	CategoryBlankLines  Category = "blank-lines"
	CategoryComments    Category = "comments"
	CategoryImports     Category = "imports"
	CategoryHeader      Category = "header"
	CategoryFooter      Category = "footer"
	CategorySeparator   Category = "separator"
	CategoryJavadoc     Category = "javadoc"
)

// Keys written as transient overrides during a preview.
var (
	// KeyForce makes the formatter reformat input it considers unchanged.
	KeyForce = NewKey("preview.force", false)

	KeyInsertHeader    = NewKey("printer.header.insert", false)
	KeyInsertFooter    = NewKey("printer.footer.insert", false)
	KeyInsertSeparator = NewKey("printer.separator.insert", false)
	KeyInsertJavadoc   = NewKey("printer.javadoc.insert", false)
)

// insertionFlags maps each category to the one insertion flag it enables.
// At most one of these flags is ever true in a preview.
var insertionFlags = map[Category]Key[bool]{
	CategoryHeader:    KeyInsertHeader,
	CategoryFooter:    KeyInsertFooter,
	CategorySeparator: KeyInsertSeparator,
	CategoryJavadoc:   KeyInsertJavadoc,
}

// DeriveOverrides returns the transient settings a preview for category
// runs with. Insertion flags are mutually exclusive: the category's own
// flag is enabled and every other one disabled, so the preview shows only
// the feature being edited.
func DeriveOverrides(category Category) map[string]any {
	out := make(map[string]any, len(insertionFlags)+1)
	out[KeyForce.Name()] = true
	for cat, key := range insertionFlags {
		out[key.Name()] = cat == category
	}
	return out
}
