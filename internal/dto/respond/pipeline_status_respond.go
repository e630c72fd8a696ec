package respond

// PipelineStatusRespond 推送连接状态
type PipelineStatusRespond struct {
	State          string `json:"state"`
	Running        bool   `json:"running"`
	HasCredentials bool   `json:"has_credentials"`
	Subscribers    int    `json:"subscribers"`
}
