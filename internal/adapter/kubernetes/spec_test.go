package kubernetes

import (
	"encoding/json"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestBuildServiceDocument_Deterministic(t *testing.T) {
	envs := map[string]string{"FOO": "bar", "ALPHA": "1", "ZETA": "z"}

	a := BuildServiceDocument("demo", "default", "registry.example/demo:v1", envs, "apps.example.net")
	b := BuildServiceDocument("demo", "default", "registry.example/demo:v1", envs, "apps.example.net")

	aj, err := json.Marshal(a.Object)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bj, err := json.Marshal(b.Object)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(aj) != string(bj) {
		t.Error("same inputs should produce byte-identical documents")
	}
}

func TestBuildServiceDocument_ServiceURLAppendedLast(t *testing.T) {
	envs := map[string]string{"ZZZ": "should-not-be-last", "FOO": "bar"}
	doc := BuildServiceDocument("demo", "default", "registry.example/demo:v1", envs, "apps.example.net")

	envList := containerEnv(t, doc)
	if len(envList) != 3 {
		t.Fatalf("env entries = %d, want 3", len(envList))
	}
	last := envList[len(envList)-1].(map[string]interface{})
	if last["name"] != "SERVICE_URL" {
		t.Errorf("last env entry = %v, want SERVICE_URL", last["name"])
	}
	if last["value"] != "https://demo.apps.example.net" {
		t.Errorf("SERVICE_URL = %v, want https://demo.apps.example.net", last["value"])
	}
}

func TestBuildServiceDocument_NoUserEnvs(t *testing.T) {
	doc := BuildServiceDocument("demo", "default", "registry.example/demo:v1", nil, "apps.example.net")

	envList := containerEnv(t, doc)
	if len(envList) != 1 {
		t.Fatalf("env entries = %d, want just SERVICE_URL", len(envList))
	}
}

func TestBuildServiceDocument_Defaults(t *testing.T) {
	doc := BuildServiceDocument("demo", "default", "registry.example/demo:v1", nil, "apps.example.net")

	annotations, _, _ := unstructured.NestedStringMap(doc.Object, "spec", "template", "metadata", "annotations")
	if annotations[annotationMinScale] != "0" {
		t.Errorf("min-scale = %q, want 0", annotations[annotationMinScale])
	}
	if annotations[annotationMaxScale] != "10" {
		t.Errorf("max-scale = %q, want 10", annotations[annotationMaxScale])
	}
	if annotations[annotationTarget] != "100" {
		t.Errorf("target = %q, want 100", annotations[annotationTarget])
	}

	containers, _, _ := unstructured.NestedSlice(doc.Object, "spec", "template", "spec", "containers")
	c := containers[0].(map[string]interface{})
	resources := c["resources"].(map[string]interface{})
	requests := resources["requests"].(map[string]interface{})
	limits := resources["limits"].(map[string]interface{})
	if requests["cpu"] != "100m" || requests["memory"] != "128Mi" {
		t.Errorf("requests = %v", requests)
	}
	if limits["cpu"] != "1" || limits["memory"] != "512Mi" {
		t.Errorf("limits = %v", limits)
	}
}

func TestBuildDomainMappingDocument(t *testing.T) {
	doc := BuildDomainMappingDocument("shop.example.com", "demo", "default")

	if doc.GetName() != "shop.example.com" {
		t.Errorf("name = %q", doc.GetName())
	}
	ref, _, _ := unstructured.NestedStringMap(doc.Object, "spec", "ref")
	if ref["name"] != "demo" || ref["kind"] != "Service" {
		t.Errorf("ref = %v", ref)
	}
}

func containerEnv(t *testing.T, doc *unstructured.Unstructured) []interface{} {
	t.Helper()
	containers, found, err := unstructured.NestedSlice(doc.Object, "spec", "template", "spec", "containers")
	if err != nil || !found || len(containers) == 0 {
		t.Fatalf("containers missing: found=%v err=%v", found, err)
	}
	c := containers[0].(map[string]interface{})
	envList, ok := c["env"].([]interface{})
	if !ok {
		t.Fatal("env list missing")
	}
	return envList
}
