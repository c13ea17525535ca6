// dvbfe-exporter exposes DVB frontend reception metrics for prometheus.
package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	exporterName = "dvbfe_exporter"
	namespace    = "dvbfe"
)

var log = logrus.New()

func main() {
	var (
		listenAddress = kingpin.Flag("web.listen-address", "Address to listen on for web interface and telemetry.").Default(":9437").OverrideDefaultFromEnvar("DVBFE_EXPORTER_PORT").String()
		metricsPath   = kingpin.Flag("web.telemetry-path", "Path under which to expose metrics.").Default("/metrics").String()
		adapter       = kingpin.Flag("dvb.adapter", "DVB adapter number to scrape.").Default("0").Uint32()
		fe            = kingpin.Flag("dvb.frontend", "Frontend number on the adapter.").Default("0").Uint32()
	)

	kingpin.Version(version.Print(exporterName))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	log.Infoln("Starting", exporterName, version.Info())
	log.Infoln("Build context", version.BuildContext())

	exporter := NewExporter(*adapter, *fe)
	prometheus.MustRegister(exporter)
	prometheus.MustRegister(version.NewCollector(exporterName))

	log.Infoln("Listening on", *listenAddress)
	http.Handle(*metricsPath, promhttp.Handler())
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>
             <head><title>DVB Frontend Exporter</title></head>
             <body>
             <h1>DVB Frontend Exporter</h1>
             <p><a href='` + *metricsPath + `'>Metrics</a></p>
             </body>
             </html>`))
	})
	log.Fatal(http.ListenAndServe(*listenAddress, nil))
}
