package domain

import "time"

// Action 表示一次部署对工作负载资源实际执行的操作。
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// PrimaryHost 返回应用自己的子域名主机名。
// 名称到主机名的推导规则全仓库只在这里定义一次。
func PrimaryHost(name, baseDomain string) string {
	return name + "." + baseDomain
}

// PrimaryURL 返回应用的主访问地址。
func PrimaryURL(name, baseDomain string) string {
	return "https://" + PrimaryHost(name, baseDomain)
}

// DeploymentRequest 是一次部署请求的完整描述。
// Name 同时用作 K8s 资源名和子域名前缀，必须是合法的 DNS label。
type DeploymentRequest struct {
	Name         string            `json:"name"`
	Image        string            `json:"image"` // registry/path:tag
	Envs         map[string]string `json:"envs,omitempty"`
	Namespace    string            `json:"namespace,omitempty"` // 为空时使用默认命名空间
	CustomDomain string            `json:"custom_domain,omitempty"`
}

// WorkloadSpec 是期望状态的领域表示，由网关翻译成 Knative Service 文档。
type WorkloadSpec struct {
	Name      string
	Namespace string
	Image     string
	Envs      map[string]string
}

// DeploymentOutcome 是一次部署的最终结果，只返回一次，不持久化。
// Action 由工作负载 upsert 决定，后续尽力而为的步骤不改变它。
type DeploymentOutcome struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Action    Action `json:"action"`
	Status    string `json:"status"`
	URL       string `json:"url"`
	CustomURL string `json:"custom_url,omitempty"`
}

// AppSummary 是应用列表项。
type AppSummary struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	URL       string `json:"url"`
	Ready     bool   `json:"ready"`
	Image     string `json:"image"`
}

// Condition 只建模控制面状态条件中需要透出的字段。
type Condition struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// AppDetail 是单个应用的详情视图。
type AppDetail struct {
	Name       string      `json:"name"`
	Namespace  string      `json:"namespace"`
	Image      string      `json:"image"`
	URL        string      `json:"url"`
	Conditions []Condition `json:"conditions,omitempty"`
}

// PodSummary 是日志查询需要的最小 Pod 视图。
type PodSummary struct {
	Name      string
	Phase     string
	CreatedAt time.Time
}

// LogResult 是日志查询结果。缩容到零的应用没有 Pod，
// 此时返回 Message 而不是错误。
type LogResult struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	PodName   string `json:"pod_name,omitempty"`
	PodStatus string `json:"pod_status,omitempty"`
	TailLines int64  `json:"tail_lines,omitempty"`
	Logs      string `json:"logs"`
	Message   string `json:"message,omitempty"`
}

// TrafficStats 是边缘节点聚合的流量指标。
type TrafficStats struct {
	Host      string    `json:"host"`
	Since     time.Time `json:"since"`
	Until     time.Time `json:"until"`
	Requests  int64     `json:"requests"`
	Bytes     int64     `json:"bytes"`
	TTFBMsP50 float64   `json:"ttfb_ms_p50"`
	TTFBMsP95 float64   `json:"ttfb_ms_p95"`
	TTFBMsP99 float64   `json:"ttfb_ms_p99"`
}

// DeploymentRecord 是操作审计记录，尽力而为写入，供运维回溯。
// 它不是请求状态：部署流程从不读回这些记录。
type DeploymentRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Namespace string    `json:"namespace"`
	Action    string    `json:"action"` // created / updated / deleted
	Status    string    `json:"status"`
	Image     string    `json:"image,omitempty"`
	URL       string    `json:"url,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
