package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"net/url"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/integrator"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/renderer"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/scene"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

// Render event types
const (
	EventConsole  = "console"
	EventTile     = "tile"
	EventPass     = "pass"
	EventComplete = "complete"
	EventError    = "error"
)

// cancelMessage stops the current render when sent by the client
const cancelMessage = "cancel"

// RenderRequest represents a render request from the client.
// Zero dimensions, samples and depth keep the scene defaults.
type RenderRequest struct {
	Scene       string
	Width       int
	Height      int
	Samples     int
	MaxDepth    int
	Passes      int
	TileSize    int
	Seed        int
	TileUpdates bool
}

// Event is a single JSON message of the render stream
type Event struct {
	Type     string          `json:"type"`
	RenderID string          `json:"renderId"`
	Console  *ConsoleMessage `json:"console,omitempty"`
	Tile     *TileUpdate     `json:"tile,omitempty"`
	Progress *ProgressUpdate `json:"progress,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// TileUpdate carries the image of a single finished tile
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// ProgressUpdate carries the full image after a pass
type ProgressUpdate struct {
	PassNumber  int                  `json:"passNumber"`
	TotalPasses int                  `json:"totalPasses"`
	ImageData   string               `json:"imageData"` // Base64 encoded PNG
	Stats       renderer.RenderStats `json:"stats"`
	IsComplete  bool                 `json:"isComplete"`
	ElapsedMs   int64                `json:"elapsedMs"`
}

func parseRenderRequest(values url.Values) (RenderRequest, error) {
	req := RenderRequest{Scene: sceneParam(values)}
	defaults := renderer.DefaultProgressiveConfig()

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minDimension, maxDimension); err != nil {
		return RenderRequest{}, err
	}
	if req.Height, err = parseIntParam(values, "height", 0, minDimension, maxDimension); err != nil {
		return RenderRequest{}, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, 1, renderLimits["samples"].Max); err != nil {
		return RenderRequest{}, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 0, 1, renderLimits["maxDepth"].Max); err != nil {
		return RenderRequest{}, err
	}
	if req.Passes, err = parseIntParam(values, "passes", defaults.MaxPasses, 1, renderLimits["passes"].Max); err != nil {
		return RenderRequest{}, err
	}
	tileLimits := renderLimits["tileSize"]
	if req.TileSize, err = parseIntParam(values, "tileSize", defaults.TileSize, tileLimits.Min, tileLimits.Max); err != nil {
		return RenderRequest{}, err
	}
	if req.Seed, err = parseIntParam(values, "seed", int(defaults.Seed), 0, 1<<31-1); err != nil {
		return RenderRequest{}, err
	}
	if req.TileUpdates, err = parseBoolParam(values, "tileUpdates", true); err != nil {
		return RenderRequest{}, err
	}

	return req, nil
}

// renderStream writes the events of one render to its WebSocket connection
type renderStream struct {
	conn     *websocket.Conn
	renderID string
}

func (s renderStream) send(event Event) error {
	event.RenderID = s.renderID

	data, err := json.Marshal(event)
	if err != nil {
		return errors.New("encoding render event failed").
			WithTag("event", event.Type).
			Wrap(err)
	}

	if err := websocket.Message.Send(s.conn, string(data)); err != nil {
		return errors.New("sending render event failed").
			WithTag("event", event.Type).
			Wrap(err)
	}

	instrumentSentEvent(event.Type, len(data))
	return nil
}

func (s renderStream) sendConsole(msg ConsoleMessage) error {
	return s.send(Event{Type: EventConsole, Console: &msg})
}

// handleRender streams a progressive render over the WebSocket connection.
// The render stops when the client disconnects or sends "cancel".
func (s *Server) handleRender(conn *websocket.Conn) {
	defer conn.Close()

	wsConnectedClients.Inc()
	defer wsConnectedClients.Dec()

	ctx, cancel := context.WithCancel(conn.Request().Context())
	defer cancel()

	go func() {
		defer cancel()

		for {
			var msg string
			if err := websocket.Message.Receive(conn, &msg); err != nil || msg == cancelMessage {
				return
			}
		}
	}()

	stream := renderStream{
		conn:     conn,
		renderID: uuid.NewString(),
	}

	err := s.render(ctx, stream, conn.Request().URL.Query())
	if err == nil {
		return
	}

	instrumentRenderError(err)
	if ctx.Err() != nil {
		logs.WithTag("render_id", stream.renderID).Debug(err)
		return
	}

	logs.Warn(errors.New("streaming render failed").
		WithTag("render_id", stream.renderID).
		Wrap(err))
	if sendErr := stream.send(Event{Type: EventError, Error: clientMessage(err)}); sendErr != nil {
		logs.WithTag("render_id", stream.renderID).Debug(sendErr)
	}
}

func (s *Server) render(ctx context.Context, stream renderStream, values url.Values) error {
	req, err := parseRenderRequest(values)
	if err != nil {
		return err
	}

	sceneObj, err := s.createRenderScene(req)
	if err != nil {
		return err
	}

	console := newConsole(stream.sendConsole)
	stats := sceneObj.Root().Stats()
	if err := console.Printf(LevelInfo, "Scene %s: %d spheres, BVH depth %d, %dx%d at %d samples",
		req.Scene, stats.TotalShapes, stats.MaxDepth,
		sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height,
		sceneObj.SamplingConfig.SamplesPerPixel); err != nil {
		return err
	}

	logs.WithTag("render_id", stream.renderID).
		WithTag("scene", req.Scene).
		WithTag("width", sceneObj.SamplingConfig.Width).
		WithTag("height", sceneObj.SamplingConfig.Height).
		WithTag("samples", sceneObj.SamplingConfig.SamplesPerPixel).
		WithTag("passes", req.Passes).
		Info("streaming render started")

	pr := renderer.NewProgressiveRaytracer(sceneObj, renderer.ProgressiveConfig{
		TileSize:           req.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: sceneObj.SamplingConfig.SamplesPerPixel,
		MaxPasses:          req.Passes,
		NumWorkers:         s.Workers,
		Seed:               int64(req.Seed),
		SceneName:          req.Scene,
	}, integrator.NewPathTracingIntegrator())
	totalPasses := pr.Config().MaxPasses

	start := time.Now()
	passChan, tileChan, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{
		TileUpdates: req.TileUpdates,
	})

	for passChan != nil || tileChan != nil {
		select {
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}

			imageData, err := imageToBase64PNG(pass.Image)
			if err != nil {
				return err
			}
			if err := stream.send(Event{
				Type: EventPass,
				Progress: &ProgressUpdate{
					PassNumber:  pass.PassNumber,
					TotalPasses: totalPasses,
					ImageData:   imageData,
					Stats:       pass.Stats,
					IsComplete:  pass.IsLast,
					ElapsedMs:   time.Since(start).Milliseconds(),
				},
			}); err != nil {
				return err
			}
			if err := console.Printf(LevelInfo, "Pass %d/%d completed in %s, %.1f samples per pixel",
				pass.PassNumber, totalPasses, pass.Duration.Round(time.Millisecond), pass.Stats.AverageSamples); err != nil {
				return err
			}

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}

			imageData, err := imageToBase64PNG(tile.TileImage)
			if err != nil {
				return err
			}
			if err := stream.send(Event{
				Type: EventTile,
				Tile: &TileUpdate{
					TileX:       tile.TileX,
					TileY:       tile.TileY,
					ImageData:   imageData,
					PassNumber:  tile.PassNumber,
					TileNumber:  tile.TileNumber,
					TotalTiles:  tile.TotalTiles,
					TotalPasses: tile.TotalPasses,
				},
			}); err != nil {
				return err
			}
		}
	}

	if err := <-errChan; err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.New("rendering cancelled").Wrap(err)
	}

	logs.WithTag("render_id", stream.renderID).
		WithTag("scene", req.Scene).
		WithTag("duration", time.Since(start).String()).
		Info("streaming render completed")

	return stream.send(Event{Type: EventComplete})
}

// createRenderScene builds the requested scene and applies the request overrides
func (s *Server) createRenderScene(req RenderRequest) (*scene.Scene, error) {
	var overrides []geometry.CameraConfig
	if req.Width > 0 {
		overrides = append(overrides, geometry.CameraConfig{Width: req.Width})
	}

	sceneObj, err := s.createScene(req.Scene, int64(req.Seed), overrides...)
	if err != nil {
		return nil, err
	}

	if req.Height > 0 {
		sceneObj.Resize(sceneObj.SamplingConfig.Width, req.Height)
	}
	if req.Samples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.MaxDepth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}
	return sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := renderer.EncodeImage(&buf, img, ".png"); err != nil {
		return "", errors.New("encoding png failed").Wrap(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
