package models

// GenerateForm is the multipart form accompanying an uploaded workbook.
// The file itself is read from the "file" field.
type GenerateForm struct {
	Sheet       string `form:"sheet"`
	Seed        *int64 `form:"seed"`
	PreviewRows *int   `form:"preview_rows" binding:"omitempty,min=0,max=10000"`
}

// DownloadQuery selects the export format of a stored result.
type DownloadQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx parquet"`
}
