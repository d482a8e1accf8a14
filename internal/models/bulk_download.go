package models

const (
	CodeSuccess        = "SUCCESS"
	CodeBadRequest     = "BAD_REQUEST"
	CodeNoAuthProvider = "NO_AUTH_PROVIDER"
)

type BulkDownloadRequest struct {
	Bucket      string   `json:"bucket"`
	Keys        []string `json:"keys"`
	ZipFileName string   `json:"zipFileName"`
}

// APIResponse is the JSON body of 200 and 400 responses.
type APIResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BulkDownloadResult struct {
	BucketName       string   `json:"bucket_name"`
	ZipFileName      string   `json:"zip_file_name"`
	Keys             []string `json:"keys"`
	TotalFiles       int      `json:"total_files"`
	OriginalSize     int64    `json:"original_size_bytes"`
	OriginalHuman    string   `json:"original_size_human"`
	CompressedSize   int64    `json:"compressed_size_bytes"`
	CompressedHuman  string   `json:"compressed_size_human"`
	Tagged           bool     `json:"tagged"`
	OperationTime    string   `json:"operation_time"`
	DownloadDuration string   `json:"duration"`
}
