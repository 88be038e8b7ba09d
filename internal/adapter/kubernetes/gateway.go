package kubernetes

import (
	"context"
	"errors"
	"fmt"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/port"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
)

var _ port.ControlPlane = (*Gateway)(nil)

var (
	servicesGVR = schema.GroupVersionResource{
		Group:    servingGroup,
		Version:  servingVersion,
		Resource: "services",
	}
	domainMappingsGVR = schema.GroupVersionResource{
		Group:    servingGroup,
		Version:  domainMappingVersion,
		Resource: "domainmappings",
	}
	podAutoscalersGVR = schema.GroupVersionResource{
		Group:    "autoscaling.internal.knative.dev",
		Version:  "v1alpha1",
		Resource: "podautoscalers",
	}
)

// podLabelService 是平台给工作负载 Pod 打的归属标签。
const podLabelService = "serving.knative.dev/service"

// Gateway 通过 dynamic client 操作 Knative 自定义资源，
// 通过 typed clientset 读取 Pod 列表和日志。
type Gateway struct {
	dynamic    dynamic.Interface
	clientset  kubernetes.Interface
	baseDomain string
}

func NewGateway(dyn dynamic.Interface, cs kubernetes.Interface, baseDomain string) *Gateway {
	return &Gateway{dynamic: dyn, clientset: cs, baseDomain: baseDomain}
}

// get 把 404 映射为 (nil, nil)，其余错误保留控制面状态码。
func (g *Gateway) get(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string) (*unstructured.Unstructured, error) {
	obj, err := g.dynamic.Resource(gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, controlPlaneError(err)
	}
	return obj, nil
}

func (g *Gateway) ApplyWorkload(ctx context.Context, spec domain.WorkloadSpec) (domain.Action, error) {
	desired := BuildServiceDocument(spec.Name, spec.Namespace, spec.Image, spec.Envs, g.baseDomain)

	existing, err := g.get(ctx, servicesGVR, spec.Namespace, spec.Name)
	if err != nil {
		return "", fmt.Errorf("get workload %s: %w", spec.Name, err)
	}
	if existing == nil {
		if _, err := g.dynamic.Resource(servicesGVR).Namespace(spec.Namespace).Create(ctx, desired, metav1.CreateOptions{}); err != nil {
			return "", fmt.Errorf("create workload %s: %w", spec.Name, controlPlaneError(err))
		}
		return domain.ActionCreated, nil
	}

	// 整体替换期望文档，只带上更新必需的 resourceVersion
	desired.SetResourceVersion(existing.GetResourceVersion())
	if _, err := g.dynamic.Resource(servicesGVR).Namespace(spec.Namespace).Update(ctx, desired, metav1.UpdateOptions{}); err != nil {
		return "", fmt.Errorf("update workload %s: %w", spec.Name, controlPlaneError(err))
	}
	return domain.ActionUpdated, nil
}

func (g *Gateway) GetWorkload(ctx context.Context, namespace, name string) (*domain.AppDetail, error) {
	obj, err := g.get(ctx, servicesGVR, namespace, name)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, domain.ErrAppNotFound
	}
	detail := &domain.AppDetail{
		Name:       name,
		Namespace:  namespace,
		Image:      workloadImage(obj),
		URL:        domain.PrimaryURL(name, g.baseDomain),
		Conditions: workloadConditions(obj),
	}
	return detail, nil
}

func (g *Gateway) ListWorkloads(ctx context.Context, namespace string) ([]domain.AppSummary, error) {
	list, err := g.dynamic.Resource(servicesGVR).Namespace(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labelManagedBy + "=" + managedByValue,
	})
	if err != nil {
		return nil, controlPlaneError(err)
	}
	apps := make([]domain.AppSummary, 0, len(list.Items))
	for i := range list.Items {
		item := &list.Items[i]
		apps = append(apps, domain.AppSummary{
			Name:      item.GetName(),
			Namespace: item.GetNamespace(),
			URL:       domain.PrimaryURL(item.GetName(), g.baseDomain),
			Ready:     workloadReady(item),
			Image:     workloadImage(item),
		})
	}
	return apps, nil
}

func (g *Gateway) DeleteWorkload(ctx context.Context, namespace, name string) error {
	err := g.dynamic.Resource(servicesGVR).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return controlPlaneError(err)
	}
	return nil
}

func (g *Gateway) EnsureDomainMapping(ctx context.Context, namespace, host, serviceName string) (bool, error) {
	existing, err := g.get(ctx, domainMappingsGVR, namespace, host)
	if err != nil {
		return false, fmt.Errorf("get domain mapping %s: %w", host, err)
	}
	if existing != nil {
		// 已有映射保持原样：目标漂移不修复，属于已记录的运维限制
		return false, nil
	}
	desired := BuildDomainMappingDocument(host, serviceName, namespace)
	if _, err := g.dynamic.Resource(domainMappingsGVR).Namespace(namespace).Create(ctx, desired, metav1.CreateOptions{}); err != nil {
		return false, fmt.Errorf("create domain mapping %s: %w", host, controlPlaneError(err))
	}
	return true, nil
}

func (g *Gateway) DeleteDomainMapping(ctx context.Context, namespace, host string) error {
	err := g.dynamic.Resource(domainMappingsGVR).Namespace(namespace).Delete(ctx, host, metav1.DeleteOptions{})
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return controlPlaneError(err)
	}
	return nil
}

func (g *Gateway) LatestCreatedRevision(ctx context.Context, namespace, name string) (string, error) {
	obj, err := g.get(ctx, servicesGVR, namespace, name)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return "", domain.ErrAppNotFound
	}
	rev, _, _ := unstructured.NestedString(obj.Object, "status", "latestCreatedRevisionName")
	return rev, nil
}

func (g *Gateway) ZeroAutoscalerFloor(ctx context.Context, namespace, revision string) error {
	patch := []byte(fmt.Sprintf(`{"metadata":{"annotations":{%q:"0"}}}`, annotationMinScale))
	_, err := g.dynamic.Resource(podAutoscalersGVR).Namespace(namespace).Patch(ctx, revision, types.MergePatchType, patch, metav1.PatchOptions{})
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("autoscaler for revision %s %w", revision, domain.ErrNotFound)
	}
	if err != nil {
		return controlPlaneError(err)
	}
	return nil
}

func (g *Gateway) ListAppPods(ctx context.Context, namespace, appName string) ([]domain.PodSummary, error) {
	list, err := g.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: podLabelService + "=" + appName,
	})
	if err != nil {
		return nil, controlPlaneError(err)
	}
	pods := make([]domain.PodSummary, 0, len(list.Items))
	for i := range list.Items {
		p := &list.Items[i]
		pods = append(pods, domain.PodSummary{
			Name:      p.Name,
			Phase:     string(p.Status.Phase),
			CreatedAt: p.CreationTimestamp.Time,
		})
	}
	return pods, nil
}

func (g *Gateway) PodLogs(ctx context.Context, namespace, podName string, tailLines int64) (string, error) {
	opts := &corev1.PodLogOptions{}
	if tailLines > 0 {
		opts.TailLines = &tailLines
	}
	raw, err := g.clientset.CoreV1().Pods(namespace).GetLogs(podName, opts).Do(ctx).Raw()
	if err != nil {
		return "", controlPlaneError(err)
	}
	return string(raw), nil
}

// controlPlaneError 把 apiserver 错误转换为保留状态码的领域错误。
func controlPlaneError(err error) error {
	var status apierrors.APIStatus
	if errors.As(err, &status) {
		st := status.Status()
		reason := st.Message
		if reason == "" {
			reason = string(st.Reason)
		}
		return &domain.ControlPlaneError{Code: int(st.Code), Reason: reason}
	}
	return err
}

func workloadImage(obj *unstructured.Unstructured) string {
	containers, _, _ := unstructured.NestedSlice(obj.Object, "spec", "template", "spec", "containers")
	if len(containers) == 0 {
		return ""
	}
	first, ok := containers[0].(map[string]interface{})
	if !ok {
		return ""
	}
	image, _ := first["image"].(string)
	return image
}

func workloadConditions(obj *unstructured.Unstructured) []domain.Condition {
	raw, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	conditions := make([]domain.Condition, 0, len(raw))
	for _, c := range raw {
		m, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		cond := domain.Condition{}
		cond.Type, _ = m["type"].(string)
		cond.Status, _ = m["status"].(string)
		cond.Reason, _ = m["reason"].(string)
		cond.Message, _ = m["message"].(string)
		conditions = append(conditions, cond)
	}
	return conditions
}

func workloadReady(obj *unstructured.Unstructured) bool {
	for _, c := range workloadConditions(obj) {
		if c.Type == "Ready" && c.Status == "True" {
			return true
		}
	}
	return false
}
