package dto

type OneDriveUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Mail        string `json:"mail"`
}

type OneDriveStatus struct {
	Connected bool          `json:"connected"`
	User      *OneDriveUser `json:"user"`
}

type DriveItem struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Size                 int64  `json:"size"`
	WebURL               string `json:"webUrl"`
	LastModifiedDateTime string `json:"lastModifiedDateTime"`
	Folder               *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder,omitempty"`
}

type OneDriveTestResult struct {
	Files      []DriveItem `json:"files"`
	FolderPath string      `json:"folderPath"`
}
