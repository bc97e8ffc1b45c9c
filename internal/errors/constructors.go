package errors

// Convenience functions for common error patterns

// Config errors

func ConfigInvalidType(field, want string) *TopsoilError {
	return New(CategoryConfig, SeverityFatal, `"`+field+`" value must be a `+want+".").
		WithContext("field", field)
}

func ConfigRequired(field string) *TopsoilError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ConfigInvalidValue(field, value string) *TopsoilError {
	return New(CategoryConfig, SeverityFatal, "unsupported configuration value").
		WithContext("field", field).
		WithContext("value", value)
}

// Page data and template errors

func ValidationFailed(file, reason string) *TopsoilError {
	return New(CategoryValidation, SeverityFatal, reason).
		WithContext("file", file)
}

func DataReadFailed(file string, cause error) *TopsoilError {
	return Wrap(cause, CategoryData, SeverityFatal, "page data could not be read").
		WithContext("file", file)
}

func DataParseFailed(file string, cause error) *TopsoilError {
	return Wrap(cause, CategoryData, SeverityFatal, "page data could not be parsed").
		WithContext("file", file)
}

func TemplateReadFailed(file string, cause error) *TopsoilError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template could not be read").
		WithContext("file", file)
}

func TemplateNotFound(name, page string) *TopsoilError {
	return New(CategoryTemplate, SeverityFatal, "template not found").
		WithContext("template", name).
		WithContext("file", page)
}

// Filesystem errors

func DirectoryListFailed(dir string, cause error) *TopsoilError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "directory could not be listed").
		WithContext("path", dir)
}

func DirectoryCreateFailed(dir string, cause error) *TopsoilError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "directory could not be created").
		WithContext("path", dir)
}

func WriteFailed(path string, cause error) *TopsoilError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output file could not be written").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *TopsoilError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
