package model

const (
	NodeTypeFile   = "file"
	NodeTypeFolder = "folder"
)

// FileNode is one entry of a workspace tree. Path is slash-separated and
// relative to the workspace root.
type FileNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Type     string     `json:"type"`
	Children []FileNode `json:"children,omitempty"`
}

type TreeData struct {
	Tree       []FileNode  `json:"tree"`
	Workspaces []Workspace `json:"workspaces"`
}
