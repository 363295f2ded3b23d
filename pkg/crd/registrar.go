package crd

import (
	"context"

	"github.com/pkg/errors"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/yaml"
)

var log = logf.Log.WithName("crd-registrar")

// Registrar makes sure that CustomResourceDefinitions are present on the
// cluster.
type Registrar struct {
	client client.Client
}

// NewRegistrar creates a new *Registrar. The scheme of c must contain the
// apiextensions/v1 types.
func NewRegistrar(c client.Client) *Registrar {
	return &Registrar{client: c}
}

// EnsureAll calls Ensure for every definition and stops at the first error.
func (r *Registrar) EnsureAll(ctx context.Context, crds []*apiextensionsv1.CustomResourceDefinition) error {
	for _, crd := range crds {
		if err := r.Ensure(ctx, crd); err != nil {
			return err
		}
	}

	return nil
}

// Ensure creates crd if it does not exist. Otherwise the existing definition
// is replaced with crd, keeping all versions of the existing definition that
// crd does not contain.
func (r *Registrar) Ensure(ctx context.Context, crd *apiextensionsv1.CustomResourceDefinition) error {
	log := log.WithValues("name", crd.Name)

	existing := &apiextensionsv1.CustomResourceDefinition{}

	err := r.client.Get(ctx, client.ObjectKey{Name: crd.Name}, existing)
	if apierrors.IsNotFound(err) {
		log.Info("creating CustomResourceDefinition")

		err = r.client.Create(ctx, crd.DeepCopy())

		return errors.Wrapf(err, "failed to create CustomResourceDefinition %s", crd.Name)
	} else if err != nil {
		return errors.Wrapf(err, "failed to get CustomResourceDefinition %s", crd.Name)
	}

	desired := crd.DeepCopy()
	desired.ResourceVersion = existing.ResourceVersion
	desired.Spec.Versions = mergeVersions(desired.Spec.Versions, existing.Spec.Versions)

	for _, v := range desired.Spec.Versions[len(crd.Spec.Versions):] {
		log.Info("preserving version", "version", v.Name)
	}

	log.Info("updating CustomResourceDefinition")

	err = r.client.Update(ctx, desired)

	return errors.Wrapf(err, "failed to update CustomResourceDefinition %s", crd.Name)
}

// mergeVersions returns desired followed by the versions of existing that
// desired does not contain. Preserved versions lose their storage flag if
// desired already has a storage version.
func mergeVersions(desired, existing []apiextensionsv1.CustomResourceDefinitionVersion) []apiextensionsv1.CustomResourceDefinitionVersion {
	hasStorage := false

	for _, v := range desired {
		if v.Storage {
			hasStorage = true
		}
	}

	merged := append([]apiextensionsv1.CustomResourceDefinitionVersion{}, desired...)

	for _, v := range difference(existing, desired) {
		if hasStorage {
			v.Storage = false
		}

		merged = append(merged, v)
	}

	return merged
}

// difference returns the versions of a whose names are not present in b.
func difference(a, b []apiextensionsv1.CustomResourceDefinitionVersion) []apiextensionsv1.CustomResourceDefinitionVersion {
	names := make(map[string]struct{}, len(b))

	for _, v := range b {
		names[v.Name] = struct{}{}
	}

	var result []apiextensionsv1.CustomResourceDefinitionVersion

	for _, v := range a {
		if _, found := names[v.Name]; !found {
			result = append(result, *v.DeepCopy())
		}
	}

	return result
}

// Marshal renders crds as a multi-document YAML stream.
func Marshal(crds []*apiextensionsv1.CustomResourceDefinition) ([]byte, error) {
	var out []byte

	for i, crd := range crds {
		data, err := yaml.Marshal(crd)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal CustomResourceDefinition %s", crd.Name)
		}

		if i > 0 {
			out = append(out, []byte("---\n")...)
		}

		out = append(out, data...)
	}

	return out, nil
}
