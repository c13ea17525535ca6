package main

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mich181189/libdvb/frontend"
)

var frontendLabelNames = []string{"adapter", "frontend"}

func newFrontendMetric(metricName, docString string, extraLabels ...string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", metricName), docString, append(frontendLabelNames, extraLabels...), nil)
}

var (
	targetUpMetric = newFrontendMetric("up", "Was the last scrape of the frontend device succesful.")

	infoMetric     = newFrontendMetric("frontend_info", "Frontend hardware description.", "name", "api")
	lockedMetric   = newFrontendMetric("locked", "Whether the frontend has a full lock.")
	statusMetric   = newFrontendMetric("status_flags", "Raw FE_STATUS bits.")
	delsysMetric   = newFrontendMetric("delivery_system_info", "Delivery system currently in use.", "system")
	signalDbMetric = newFrontendMetric("signal_strength_dbm", "Signal strength in dBm.")
	signalPcMetric = newFrontendMetric("signal_strength_ratio", "Signal strength relative to full scale.")
	snrDbMetric    = newFrontendMetric("snr_db", "Signal to noise ratio in dB.")
	snrPcMetric    = newFrontendMetric("snr_ratio", "Signal to noise ratio relative to full scale.")
	berMetric      = newFrontendMetric("pre_fec_bit_errors_total", "Bit errors before forward error correction.")
	uncMetric      = newFrontendMetric("uncorrected_blocks_total", "Blocks the forward error correction could not repair.")
)

// Exporter reads one frontend per scrape over a read-only handle, so it can
// run next to whatever program owns the tuner.
type Exporter struct {
	adapter  uint32
	frontend uint32
	labels   []string
	mutex    sync.Mutex

	totalScrapes   prometheus.Counter
	scrapeFailures prometheus.Counter
}

func NewExporter(adapter, fe uint32) *Exporter {
	return &Exporter{
		adapter:  adapter,
		frontend: fe,
		labels:   []string{fmt.Sprint(adapter), fmt.Sprint(fe)},
		totalScrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exporter_scrapes_total",
			Help:      "Current total frontend scrapes.",
		}),
		scrapeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exporter_scrape_errors_total",
			Help:      "Number of scrapes that could not read the frontend.",
		}),
	}
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- targetUpMetric
	ch <- infoMetric
	ch <- lockedMetric
	ch <- statusMetric
	ch <- delsysMetric
	ch <- signalDbMetric
	ch <- signalPcMetric
	ch <- snrDbMetric
	ch <- snrPcMetric
	ch <- berMetric
	ch <- uncMetric

	ch <- e.totalScrapes.Desc()
	ch <- e.scrapeFailures.Desc()
}

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	up := e.scrape(ch)
	ch <- prometheus.MustNewConstMetric(targetUpMetric, prometheus.GaugeValue, up, e.labels...)

	ch <- e.totalScrapes
	ch <- e.scrapeFailures
}

func (e *Exporter) scrape(ch chan<- prometheus.Metric) (up float64) {
	e.totalScrapes.Inc()

	dev, err := frontend.OpenRO(e.adapter, e.frontend)
	if err != nil {
		log.Errorln(err)
		e.scrapeFailures.Inc()
		return 0
	}
	defer dev.Close()

	info := dev.Info()
	api := fmt.Sprintf("%d.%d", info.APIVersion>>8, info.APIVersion&0xFF)
	ch <- prometheus.MustNewConstMetric(infoMetric, prometheus.GaugeValue, 1, append(e.labels, info.Name, api)...)

	rec, err := dev.ReadStatus()
	if err != nil {
		log.Errorln(err)
		e.scrapeFailures.Inc()
		return 0
	}

	locked := 0.0
	if rec.Locked {
		locked = 1
	}
	ch <- prometheus.MustNewConstMetric(lockedMetric, prometheus.GaugeValue, locked, e.labels...)
	ch <- prometheus.MustNewConstMetric(statusMetric, prometheus.GaugeValue, float64(rec.Flags), e.labels...)

	if rec.DeliverySystem != frontend.SystemUndefined {
		ch <- prometheus.MustNewConstMetric(delsysMetric, prometheus.GaugeValue, 1, append(e.labels, rec.DeliverySystem.String())...)
	}
	if rec.SignalStrengthDecibel != nil {
		ch <- prometheus.MustNewConstMetric(signalDbMetric, prometheus.GaugeValue, float64(*rec.SignalStrengthDecibel)/1000, e.labels...)
	}
	if rec.SignalStrengthPercent != nil {
		ch <- prometheus.MustNewConstMetric(signalPcMetric, prometheus.GaugeValue, float64(*rec.SignalStrengthPercent)/100, e.labels...)
	}
	if rec.SNRDecibel != nil {
		ch <- prometheus.MustNewConstMetric(snrDbMetric, prometheus.GaugeValue, float64(*rec.SNRDecibel)/1000, e.labels...)
	}
	if rec.SNRPercent != nil {
		ch <- prometheus.MustNewConstMetric(snrPcMetric, prometheus.GaugeValue, float64(*rec.SNRPercent)/100, e.labels...)
	}
	if rec.BER != nil {
		ch <- prometheus.MustNewConstMetric(berMetric, prometheus.CounterValue, float64(*rec.BER), e.labels...)
	}
	if rec.UncorrectedBlocks != nil {
		ch <- prometheus.MustNewConstMetric(uncMetric, prometheus.CounterValue, float64(*rec.UncorrectedBlocks), e.labels...)
	}

	return 1
}
