// Package crd contains the CustomResourceDefinitions of all kinds and
// registers them with the API server.
package crd

import (
	"strings"

	"github.com/kastlewatch/kastlewatch/pkg/apis/kastlewatch/v1alpha1"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Definitions returns the CustomResourceDefinitions of all monitor and
// notifier kinds.
func Definitions() []*apiextensionsv1.CustomResourceDefinition {
	return []*apiextensionsv1.CustomResourceDefinition{
		newDefinition(resource.TCPMonitorKind, tcpMonitorSpecSchema(), true),
		newDefinition(resource.HTTPMonitorKind, httpMonitorSpecSchema(), true),
		newDefinition(resource.DiscordNotifierKind, discordNotifierSpecSchema(), false),
	}
}

func newDefinition(kind resource.Kind, spec apiextensionsv1.JSONSchemaProps, monitor bool) *apiextensionsv1.CustomResourceDefinition {
	singular := strings.ToLower(kind.Kind)
	plural := singular + "s"

	root := apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"spec"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"apiVersion": {Type: "string"},
			"kind":       {Type: "string"},
			"metadata":   {Type: "object"},
			"spec":       spec,
		},
	}

	version := apiextensionsv1.CustomResourceDefinitionVersion{
		Name:    kind.Version,
		Served:  true,
		Storage: true,
		Schema: &apiextensionsv1.CustomResourceValidation{
			OpenAPIV3Schema: &root,
		},
		AdditionalPrinterColumns: []apiextensionsv1.CustomResourceColumnDefinition{
			{Name: "Age", Type: "date", JSONPath: ".metadata.creationTimestamp"},
		},
	}

	if monitor {
		root.Properties["status"] = monitorStatusSchema()
		version.Subresources = &apiextensionsv1.CustomResourceSubresources{
			Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
		}
		version.AdditionalPrinterColumns = append([]apiextensionsv1.CustomResourceColumnDefinition{
			{Name: "State", Type: "string", JSONPath: ".status.state"},
			{Name: "Last Checked", Type: "date", JSONPath: ".status.lastChecked"},
		}, version.AdditionalPrinterColumns...)
	}

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: apiextensionsv1.SchemeGroupVersion.String(),
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: plural + "." + kind.Group,
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: kind.Group,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:   plural,
				Singular: singular,
				Kind:     kind.Kind,
				ListKind: kind.Kind + "List",
			},
			Scope:    apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{version},
		},
	}
}

func tcpMonitorSpecSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"host", "port", "monitorConfig"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"host": {
				Type:        "string",
				Description: "The hostname or IP address of the target.",
				MinLength:   int64Ptr(1),
			},
			"port": {
				Type:        "integer",
				Format:      "int32",
				Description: "The port number to check.",
				Minimum:     float64Ptr(1),
				Maximum:     float64Ptr(65535),
			},
			"monitorConfig": monitorConfigSchema(),
		},
	}
}

func httpMonitorSpecSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"url", "method", "monitorConfig"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"url": {
				Type:        "string",
				Description: "The URL to check.",
			},
			"method": {
				Type:        "string",
				Description: "The HTTP method of the check.",
				Enum: []apiextensionsv1.JSON{
					enumValue(string(v1alpha1.HTTPMethodGet)),
					enumValue(string(v1alpha1.HTTPMethodPost)),
				},
			},
			"statusCode": {
				Type:        "array",
				Description: "Status codes considered healthy. Any 2xx code if not set.",
				Items: &apiextensionsv1.JSONSchemaPropsOrArray{
					Schema: &apiextensionsv1.JSONSchemaProps{
						Type:    "integer",
						Format:  "int32",
						Minimum: float64Ptr(100),
						Maximum: float64Ptr(599),
					},
				},
			},
			"base64Data": {
				Type:        "string",
				Description: "Base64 encoded request body.",
			},
			"monitorConfig": monitorConfigSchema(),
		},
	}
}

func discordNotifierSpecSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"webhookSecretRef"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"webhookSecretRef": {
				Type:        "object",
				Description: "Reference to the secret containing the webhook URL.",
				Required:    []string{"name", "key"},
				Properties: map[string]apiextensionsv1.JSONSchemaProps{
					"name": {Type: "string"},
					"key":  {Type: "string"},
				},
			},
			"messageFormat": {
				Type:        "string",
				Description: "Reserved.",
			},
		},
	}
}

func monitorConfigSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"timeout", "retries", "pollingFrequency"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"timeout": {
				Type:        "integer",
				Format:      "int32",
				Description: "Timeout in seconds for a single check attempt.",
				Minimum:     float64Ptr(1),
			},
			"retries": {
				Type:        "integer",
				Format:      "int32",
				Description: "Additional check attempts before the target is considered Critical.",
				Minimum:     float64Ptr(0),
			},
			"pollingFrequency": {
				Type:        "integer",
				Format:      "int32",
				Description: "Seconds between two checks.",
				Minimum:     float64Ptr(1),
			},
			"notifiersMatchLabels": {
				Type:        "object",
				Description: "Labels selecting the notifiers that receive state changes.",
				AdditionalProperties: &apiextensionsv1.JSONSchemaPropsOrBool{
					Allows: true,
					Schema: &apiextensionsv1.JSONSchemaProps{Type: "string"},
				},
			},
		},
	}
}

func monitorStatusSchema() apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type: "object",
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"lastChecked": {
				Type:   "string",
				Format: "date-time",
			},
			"state": {
				Type: "string",
				Enum: []apiextensionsv1.JSON{
					enumValue(string(v1alpha1.MonitorStateHealthy)),
					enumValue(string(v1alpha1.MonitorStateWarning)),
					enumValue(string(v1alpha1.MonitorStateCritical)),
					enumValue(string(v1alpha1.MonitorStateNoData)),
				},
			},
		},
	}
}

func enumValue(v string) apiextensionsv1.JSON {
	return apiextensionsv1.JSON{Raw: []byte(`"` + v + `"`)}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func float64Ptr(v float64) *float64 {
	return &v
}
