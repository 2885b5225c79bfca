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

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "guestline"

// GuestMetrics counts workflow outcomes. A nil *GuestMetrics records nothing.
type GuestMetrics struct {
	provisionTotal *prometheus.CounterVec
	verifyTotal    *prometheus.CounterVec
	dispatchTotal  *prometheus.CounterVec
	licenseTotal   *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

// NewGuestMetrics creates the collectors and registers them on reg.
func NewGuestMetrics(reg prometheus.Registerer) (*GuestMetrics, error) {
	m := &GuestMetrics{
		provisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provision_total",
			Help:      "Guest provisioning outcomes by result code",
		}, []string{"code"}),
		verifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verify_total",
			Help:      "Guest verification outcomes by result code",
		}, []string{"code"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Verification code dispatches by result",
		}, []string{"result"}),
		licenseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_assign_total",
			Help:      "License assignment attempts by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of guest workflow operations",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.provisionTotal, m.verifyTotal, m.dispatchTotal, m.licenseTotal, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *GuestMetrics) ObserveProvision(code string, start time.Time) {
	if m == nil {
		return
	}
	m.provisionTotal.WithLabelValues(code).Inc()
	m.duration.WithLabelValues("provision").Observe(time.Since(start).Seconds())
}

func (m *GuestMetrics) ObserveVerify(code string, start time.Time) {
	if m == nil {
		return
	}
	m.verifyTotal.WithLabelValues(code).Inc()
	m.duration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
}

func (m *GuestMetrics) IncDispatch(result string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(result).Inc()
}

func (m *GuestMetrics) IncLicense(result string) {
	if m == nil {
		return
	}
	m.licenseTotal.WithLabelValues(result).Inc()
}
