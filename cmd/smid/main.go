package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/smathot/libsmi/smi"
)

var configFile = flag.String("f", "", "daemon configuration as a toml `file`")
var connTo = flag.String("c", "", "serial port the tracker is attached to, overrides the config file")
var httpServe = flag.String("s", "", "serve the control API at [bindtohost][:]port, overrides the config file")
var verbose = flag.Bool("v", false, "verbose logging")

// To be set via go build -ldflags "-X main.buildVersion=$(git describe --dirty) -X main.buildDate=$(date -u +%FT%TZ)"
var buildVersion = "unspecified"
var buildDate = "unknown"

// One serial session, serialized across handlers. The core package is
// synchronous by design; concurrency lives only here.
var (
	trackerMu sync.Mutex
	tracker   *smi.Tracker
)

var calCancel cancelFlag

// cancelFlag lets POST /calibration/cancel abort a running calibration. The
// flag clears itself when polled.
type cancelFlag struct {
	v atomic.Bool
}

func (c *cancelFlag) Cancelled() bool { return c.v.Swap(false) }

// logDisplay narrates calibration targets into the log; rendering real
// fixation markers is the experiment host's job.
type logDisplay struct{}

func (logDisplay) Clear() {}

func (logDisplay) DrawFixation(x, y int) {
	log.Infof("calibration target at %d,%d", x, y)
}

func (logDisplay) Present() {}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	e := json.NewEncoder(w)
	e.SetIndent("", "    ")
	e.Encode(v)
}

func getStatus(w http.ResponseWriter, r *http.Request) {
	trackerMu.Lock()
	streaming := tracker.Streaming()
	trackerMu.Unlock()
	writeJSON(w, http.StatusOK, struct {
		Streaming bool `json:"streaming"`
	}{Streaming: streaming})
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Version   string `json:"version"`
		BuildDate string `json:"build_date"`
	}{Version: buildVersion, BuildDate: buildDate})
}

func startRecording(w http.ResponseWriter, r *http.Request) {
	stream := r.URL.Query().Get("stream") != "false"
	trackerMu.Lock()
	err := tracker.StartRecording(stream)
	trackerMu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, "OK")
}

func stopRecording(w http.ResponseWriter, r *http.Request) {
	trackerMu.Lock()
	err := tracker.StopRecording()
	trackerMu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, "OK")
}

func runCalibration(w http.ResponseWriter, r *http.Request) {
	points := 9
	if q := r.URL.Query().Get("points"); q != "" {
		p, err := strconv.Atoi(q)
		if err != nil || p < 1 {
			http.Error(w, fmt.Sprintf("bad point count %q", q), http.StatusBadRequest)
			return
		}
		points = p
	}

	calCancel.v.Store(false)
	trackerMu.Lock()
	err := tracker.Calibrate(points)
	trackerMu.Unlock()
	if errors.Is(err, smi.ErrCalibrationCancelled) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, "OK")
}

func cancelCalibration(w http.ResponseWriter, r *http.Request) {
	// Only sets the flag; the calibration loop polls it between frames,
	// so this must not wait on trackerMu.
	calCancel.v.Store(true)
	writeJSON(w, http.StatusOK, "OK")
}

func saveData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	trackerMu.Lock()
	err := tracker.SaveData(req.Path)
	trackerMu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, "OK")
}

func remark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "remark needs a non-empty message", http.StatusBadRequest)
		return
	}
	trackerMu.Lock()
	err := tracker.Log(req.Message)
	trackerMu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, "OK")
}

func getGaze(w http.ResponseWriter, r *http.Request) {
	trackerMu.Lock()
	x, y, err := tracker.Sample(true)
	trackerMu.Unlock()
	if errors.Is(err, smi.ErrNotStreaming) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gazeSample{X: x, Y: y})
}

func main() {
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}

	cfg := defaultDaemonConfig()
	if *configFile != "" {
		var err error
		cfg, err = loadDaemonConfig(*configFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *connTo != "" {
		cfg.Tracker.Port = *connTo
	}
	if *httpServe != "" {
		// accept :[portnum] as well as [portnum]
		if i, err := strconv.Atoi(*httpServe); err == nil {
			*httpServe = fmt.Sprintf(":%d", i)
		}
		cfg.Listen = *httpServe
	}

	var err error
	tracker, err = smi.Connect(cfg.Tracker)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	tracker.Display = logDisplay{}
	tracker.Cancel = &calCancel

	done := make(chan os.Signal, 1)
	signal.Notify(done,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		<-done
		trackerMu.Lock()
		if err := tracker.StopRecording(); err != nil {
			log.Warnf("stop recording on shutdown: %v", err)
		}
		if err := tracker.Close(); err != nil {
			log.Warnf("close: %v", err)
		}
		os.Exit(0)
	}()

	if cfg.MQTTBroker != "" {
		go func() {
			if err := runGazePublisher(cfg.MQTTBroker, cfg.MQTTTopic); err != nil {
				log.Errorf("gaze publisher: %v", err)
			}
		}()
	}

	router := mux.NewRouter()
	router.HandleFunc("/status", getStatus).Methods("GET")
	router.HandleFunc("/version", versionInfo).Methods("GET")
	router.HandleFunc("/recording/start", startRecording).Methods("POST")
	router.HandleFunc("/recording/stop", stopRecording).Methods("POST")
	router.HandleFunc("/calibration", runCalibration).Methods("POST")
	router.HandleFunc("/calibration/cancel", cancelCalibration).Methods("POST")
	router.HandleFunc("/save", saveData).Methods("POST")
	router.HandleFunc("/remark", remark).Methods("POST")
	router.HandleFunc("/gaze", getGaze).Methods("GET")
	router.HandleFunc("/gaze/stream", streamGaze).Methods("GET")

	h := &http.Server{Addr: cfg.Listen, Handler: router}
	log.Infof("control API listening on %s", cfg.Listen)
	log.Fatal(h.ListenAndServe())
}
