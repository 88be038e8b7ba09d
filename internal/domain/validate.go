package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// dnsLabelRegex 匹配合法的 DNS label：小写字母开头，只含小写字母、数字和连字符。
// 应用名既是 K8s 资源名又是子域名前缀，两边都要求 DNS label。
var dnsLabelRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateAppName 校验名称是否可同时用作资源名和子域名。
func ValidateAppName(name string) error {
	if !dnsLabelRegex.MatchString(name) {
		return fmt.Errorf("%w: name %q is not a valid dns label", ErrInvalidInput, name)
	}
	return nil
}

// domainLabelRegex 匹配域名中的单个 label，大小写不敏感。
var domainLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// ValidateCustomDomain 校验自定义域名是一个合理的 FQDN。
func ValidateCustomDomain(domain string) error {
	if len(domain) == 0 || len(domain) > 253 {
		return fmt.Errorf("%w: custom_domain %q has invalid length", ErrInvalidInput, domain)
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fmt.Errorf("%w: custom_domain %q must be fully qualified", ErrInvalidInput, domain)
	}
	for _, l := range labels {
		if !domainLabelRegex.MatchString(l) {
			return fmt.Errorf("%w: custom_domain %q contains invalid label %q", ErrInvalidInput, domain, l)
		}
	}
	return nil
}

// ValidateImage 校验镜像引用非空且不含空白字符。
func ValidateImage(image string) error {
	if image == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	if strings.ContainsAny(image, " \t\n") {
		return fmt.Errorf("%w: image %q contains whitespace", ErrInvalidInput, image)
	}
	return nil
}
