package kubernetes

import (
	"sort"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

const (
	servingGroup         = "serving.knative.dev"
	servingVersion       = "v1"
	domainMappingVersion = "v1beta1"

	labelApp       = "app"
	labelManagedBy = "paas.chiwei/managed-by"
	managedByValue = "serverless-engine"
)

// 固定的资源与扩缩默认值。最小副本 0 依赖部署后的自动扩缩修正才能真正生效。
const (
	defaultCPURequest    = "100m"
	defaultMemoryRequest = "128Mi"
	defaultCPULimit      = "1"
	defaultMemoryLimit   = "512Mi"

	annotationMinScale = "autoscaling.knative.dev/min-scale"
	annotationMaxScale = "autoscaling.knative.dev/max-scale"
	annotationTarget   = "autoscaling.knative.dev/target"
)

// BuildServiceDocument 把部署参数翻译成 Knative Service 期望文档。纯函数，不做 I/O。
// 用户环境变量按 key 排序渲染，SERVICE_URL 固定追加在末尾，
// 保证相同输入产出字节一致的文档。
func BuildServiceDocument(name, namespace, image string, envs map[string]string, baseDomain string) *unstructured.Unstructured {
	keys := make([]string, 0, len(envs))
	for k := range envs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	envList := make([]interface{}, 0, len(keys)+1)
	for _, k := range keys {
		envList = append(envList, map[string]interface{}{"name": k, "value": envs[k]})
	}
	// 自动注入应用访问自己的地址，供 keep-alive 自探活等场景使用
	envList = append(envList, map[string]interface{}{
		"name":  "SERVICE_URL",
		"value": domain.PrimaryURL(name, baseDomain),
	})

	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": servingGroup + "/" + servingVersion,
			"kind":       "Service",
			"metadata": map[string]interface{}{
				"name":      name,
				"namespace": namespace,
				"labels": map[string]interface{}{
					labelApp:       name,
					labelManagedBy: managedByValue,
				},
			},
			"spec": map[string]interface{}{
				"template": map[string]interface{}{
					"metadata": map[string]interface{}{
						"annotations": map[string]interface{}{
							annotationMinScale: "0",
							annotationMaxScale: "10",
							annotationTarget:   "100",
						},
					},
					"spec": map[string]interface{}{
						"containers": []interface{}{
							map[string]interface{}{
								"image": image,
								"env":   envList,
								"ports": []interface{}{
									map[string]interface{}{
										"containerPort": int64(8080),
										"protocol":      "TCP",
									},
								},
								"resources": map[string]interface{}{
									"requests": map[string]interface{}{
										"cpu":    defaultCPURequest,
										"memory": defaultMemoryRequest,
									},
									"limits": map[string]interface{}{
										"cpu":    defaultCPULimit,
										"memory": defaultMemoryLimit,
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// BuildDomainMappingDocument 把主机名绑定到服务。纯函数，不做 I/O。
func BuildDomainMappingDocument(host, serviceName, namespace string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": servingGroup + "/" + domainMappingVersion,
			"kind":       "DomainMapping",
			"metadata": map[string]interface{}{
				"name":      host,
				"namespace": namespace,
				"labels": map[string]interface{}{
					labelManagedBy: managedByValue,
				},
			},
			"spec": map[string]interface{}{
				"ref": map[string]interface{}{
					"name":       serviceName,
					"kind":       "Service",
					"apiVersion": servingGroup + "/" + servingVersion,
				},
			},
		},
	}
}
