package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smarterthings-bridge/internal/domain/model"
	"smarterthings-bridge/internal/domain/service"
	"smarterthings-bridge/internal/domain/translator"
	"smarterthings-bridge/internal/ports"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	bridge      ports.BridgePort
	ip          string
	stateSchema *jsonschema.Schema
	log         zerolog.Logger
}

func NewServer(bridge ports.BridgePort, ip string, log zerolog.Logger) (*Server, error) {
	schema, err := compileSchema("light-state.json", lightStateSchema)
	if err != nil {
		return nil, err
	}
	return &Server{
		bridge:      bridge,
		ip:          ip,
		stateSchema: schema,
		log:         log.With().Str("component", "http").Logger(),
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/description.xml", s.handleDescription)
	mux.HandleFunc("/api", s.handleAPI)
	mux.HandleFunc("/api/", s.handleAPI)
	mux.HandleFunc("/admin/config", s.handleConfig)
	mux.HandleFunc("/admin/entities", s.handleEntities)
	return requestLogger(s.log, mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("hue api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if host == "" {
		host = s.ip + ":80"
	}
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" ?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
<specVersion>
<major>1</major>
<minor>0</minor>
</specVersion>
<URLBase>http://%s/</URLBase>
<device>
<deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
<friendlyName>SmarterThings (%s)</friendlyName>
<manufacturer>Royal Philips Electronics</manufacturer>
<manufacturerURL>http://www.philips.com</manufacturerURL>
<modelDescription>Philips hue Personal Wireless Lighting</modelDescription>
<modelName>Philips hue bridge 2012</modelName>
<modelNumber>929000226503</modelNumber>
<modelURL>http://www.meethue.com</modelURL>
<serialNumber>001788102201</serialNumber>
<UDN>uuid:2f402f80-da50-11e1-9b23-001788102201</UDN>
<presentationURL>admin/entities</presentationURL>
</device>
</root>`, host, s.ip)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/")

	if path == "" {
		if r.Method == http.MethodPost {
			s.handleRegister(w, r)
			return
		}
		writeHueError(w, hueErrUnauthorized, "/", "unauthorized user")
		return
	}

	subPath := strings.Split(path, "/")[1:]
	if len(subPath) == 0 {
		s.handleFullState(w, r)
		return
	}

	switch {
	case subPath[0] == "lights" && len(subPath) == 1:
		s.handleGetLights(w, r)
	case subPath[0] == "lights" && len(subPath) == 2:
		s.handleGetLight(w, r, subPath[1])
	case subPath[0] == "lights" && len(subPath) == 3 && subPath[2] == "state":
		s.handleSetLightState(w, r, subPath[1])
	case subPath[0] == "groups" && len(subPath) == 1:
		writeJSON(w, map[string]any{})
	default:
		writeHueError(w, hueErrNotAvailable, "/"+strings.Join(subPath, "/"), "resource not available")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []map[string]any{{"success": map[string]string{"username": "admin"}}})
}

func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	lights, err := s.bridge.GetLights(r.Context())
	if err != nil {
		writeHueError(w, hueErrInternal, "/", err.Error())
		return
	}

	writeJSON(w, map[string]any{
		"lights": lights,
		"groups": map[string]any{},
		"config": map[string]any{
			"name":       "Philips hue",
			"swversion":  "01003542",
			"apiversion": "1.11.0",
			"mac":        "00:17:88:10:22:01",
			"bridgeid":   "001788FFFE102201",
			"modelid":    "BSB001",
		},
	})
}

func (s *Server) handleGetLights(w http.ResponseWriter, r *http.Request) {
	lights, err := s.bridge.GetLights(r.Context())
	if err != nil {
		writeHueError(w, hueErrInternal, "/lights", err.Error())
		return
	}
	writeJSON(w, lights)
}

func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request, id string) {
	light, err := s.bridge.GetLight(r.Context(), id)
	if err != nil {
		writeHueError(w, hueErrNotAvailable, "/lights/"+id, "resource, /lights/"+id+", not available")
		return
	}
	writeJSON(w, light)
}

func (s *Server) handleSetLightState(w http.ResponseWriter, r *http.Request, id string) {
	address := "/lights/" + id + "/state"
	if r.Method != http.MethodPut {
		writeHueError(w, hueErrMethodNotAllowed, address, "method, "+r.Method+", not available for resource, "+address)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeHueError(w, hueErrInvalidJSON, address, "body contains invalid json")
		return
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		writeHueError(w, hueErrInvalidJSON, address, "body contains invalid json")
		return
	}
	if err := s.stateSchema.Validate(raw); err != nil {
		writeHueError(w, hueErrInvalidValue, address, err.Error())
		return
	}
	var update ports.LightState
	if err := json.Unmarshal(body, &update); err != nil {
		writeHueError(w, hueErrInvalidJSON, address, "body contains invalid json")
		return
	}

	if err := s.bridge.UpdateLightState(r.Context(), id, update); err != nil {
		s.log.Warn().Err(err).Str("light", id).Msg("state update failed")
		switch {
		case errors.Is(err, service.ErrEntityNotFound):
			writeHueError(w, hueErrNotAvailable, "/lights/"+id, "resource, /lights/"+id+", not available")
		case errors.Is(err, translator.ErrReadOnly):
			writeHueError(w, hueErrNotModifiable, address, "parameter, state, is not modifiable")
		default:
			writeHueError(w, hueErrInternal, address, err.Error())
		}
		return
	}

	resp := []map[string]any{}
	if update.On != nil {
		resp = append(resp, map[string]any{"success": map[string]any{address + "/on": *update.On}})
	}
	if update.Bri != nil {
		resp = append(resp, map[string]any{"success": map[string]any{address + "/bri": *update.Bri}})
	}
	writeJSON(w, resp)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.bridge.GetConfig(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, cfg)
	case http.MethodPost:
		var cfg model.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.bridge.UpdateConfig(r.Context(), &cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := s.bridge.GetEntities(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, entities)
}
