package v1alpha1

import (
	"context"
	"time"

	"github.com/kastlewatch/kastlewatch/pkg/clients"
	"github.com/kastlewatch/kastlewatch/pkg/notifier/discord"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DiscordNotifierSpec defines a Discord webhook that receives monitor state
// changes.
type DiscordNotifierSpec struct {
	// WebhookSecretRef references the secret key holding the webhook URL.
	WebhookSecretRef SecretKeySelector `json:"webhookSecretRef"`

	// MessageFormat is reserved for custom message layouts and is not
	// interpreted yet.
	// +optional
	MessageFormat string `json:"messageFormat,omitempty"`
}

// +kubebuilder:object:root=true

// DiscordNotifier posts monitor state changes to a Discord channel.
type DiscordNotifier struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec DiscordNotifierSpec `json:"spec"`
}

// +kubebuilder:object:root=true

// DiscordNotifierList contains a list of DiscordNotifier.
type DiscordNotifierList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DiscordNotifier `json:"items"`
}

func init() {
	SchemeBuilder.Register(&DiscordNotifier{}, &DiscordNotifierList{})
}

// SuccessPolicy returns a long fixed interval.
func (n *DiscordNotifier) SuccessPolicy() time.Duration {
	return NotifierRequeueInterval
}

// ErrorPolicy returns a fixed interval regardless of the error.
func (n *DiscordNotifier) ErrorPolicy(_ error) time.Duration {
	return NotifierErrorRequeueInterval
}

// Validate rejects notifiers with an incomplete secret reference.
func (n *DiscordNotifier) Validate() error {
	return errors.Wrap(n.Spec.WebhookSecretRef.Validate(), "spec.webhookSecretRef")
}

// Notify resolves the webhook URL and posts the state change of the named
// monitor.
func (n *DiscordNotifier) Notify(ctx context.Context, c *clients.Clients, monitorName string, oldState, newState MonitorState) error {
	ref := n.Spec.WebhookSecretRef

	webhookURL, err := c.SecretValue(ctx, namespaceOrDefault(n.Namespace), ref.Name, ref.Key)
	if err != nil {
		return err
	}

	msg := discord.NewStateChangeMessage(monitorName, string(oldState), string(newState), newState.Color(), time.Now())

	return discord.NewClient(c.WebhookClient()).Send(ctx, webhookURL, msg)
}
