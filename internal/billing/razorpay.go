// Copyright 2026 The UNIV.LIVE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package billing

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayAPI implements SubscriptionAPI against the Razorpay subscriptions
// endpoint.
type RazorpayAPI struct {
	client *razorpay.Client
}

// NewRazorpayAPI creates a Razorpay-backed subscription client.
func NewRazorpayAPI(keyID, keySecret string) *RazorpayAPI {
	return &RazorpayAPI{client: razorpay.NewClient(keyID, keySecret)}
}

// UpdateQuantity patches the subscription with an immediate effective-date
// change. The quantity is only persisted locally after this returns, so a
// failed call leaves no partial external state to reconcile.
func (r *RazorpayAPI) UpdateQuantity(ctx context.Context, subscriptionID string, quantity int) (string, error) {
	body, err := r.client.Subscription.Update(subscriptionID, map[string]interface{}{
		"quantity":           quantity,
		"schedule_change_at": "now",
		"customer_notify":    false,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay subscription update: %w", err)
	}

	status, _ := body["status"].(string)
	return status, nil
}
