// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"fmt"

	"github.com/go-arcade/guestline/pkg/log"
	"github.com/google/wire"
)

// ProviderSet provides notify layer related dependencies
var ProviderSet = wire.NewSet(
	ProvideSender,
)

// ProvideSender builds the sender selected by cfg.Driver
func ProvideSender(cfg EmailConfig) (IVerificationSender, error) {
	switch cfg.Driver {
	case DriverSMTP:
		return NewEmailSender(cfg.SMTP)
	case DriverWebhook:
		return NewWebhookSender(cfg.Webhook)
	case DriverLog, "":
		log.Warn("email driver is log, guest mails will not be delivered")
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported email driver %q", cfg.Driver)
	}
}
