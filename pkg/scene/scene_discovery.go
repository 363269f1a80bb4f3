package scene

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/sauerbraten/jsonfile"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtInGroup = "Built-in Scenes"
	filePrefix   = "file:"
)

type builtIn struct {
	info   SceneInfo
	create func(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Noise-textured metal, diffuse and glass spheres on a grey ground",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "book1",
			Name:        "Random Spheres",
			Description: "Field of random small spheres around three large ones",
		},
		create: NewBook1Scene,
	},
	{
		info: SceneInfo{
			ID:          "two-spheres",
			Name:        "Two Spheres",
			Description: "Small blue sphere resting on a large ground sphere",
		},
		create: NewTwoSpheresScene,
	},
	{
		info: SceneInfo{
			ID:          "checkered",
			Name:        "Checkered Ground",
			Description: "Metal, diffuse and glass spheres on a checkered ground",
		},
		create: NewCheckeredScene,
	},
}

// Names returns the identifiers of the built-in scenes
func Names() []string {
	names := make([]string, len(builtIns))
	for i, b := range builtIns {
		names[i] = b.info.ID
	}
	return names
}

// Create builds the scene with the given identifier. Identifiers starting with
// "file:" or ending in ".json" are loaded from disk.
func Create(name string, seed int64, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if path, ok := FilePath(name); ok {
		s, err := LoadFile(path, seed)
		if err != nil {
			return nil, err
		}
		if len(cameraOverrides) > 0 {
			s.SetCamera(geometry.MergeCameraConfig(s.CameraConfig, cameraOverrides[0]))
		}
		return s, nil
	}

	for _, b := range builtIns {
		if b.info.ID == name {
			return b.create(seed, cameraOverrides...), nil
		}
	}

	return nil, errors.New("unknown scene").
		WithType(ErrTypeUnknownScene).
		WithTag("scene", name)
}

// FilePath reports the file path named by a scene identifier, if it names one
func FilePath(name string) (string, bool) {
	if strings.HasPrefix(name, filePrefix) {
		return strings.TrimPrefix(name, filePrefix), true
	}
	if strings.HasSuffix(name, ".json") {
		return name, true
	}
	return "", false
}

// ListFileScenes scans the scenes directory and returns discovered scene files
func ListFileScenes(dirs ...string) ([]SceneInfo, error) {
	if len(dirs) == 0 {
		// Try different possible paths for scenes directory
		dirs = []string{"scenes", "../scenes"}
	}

	var scenesDir string
	for _, path := range dirs {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, errors.New("scanning scenes directory failed").
			WithTag("dir", scenesDir).
			Wrap(err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseFileMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			logs.Warn(errors.New("parsing scene metadata failed").
				WithTag("path", filePath).
				Wrap(err))
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseFileMetadata reads the name, description and group of a scene file
func ParseFileMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          filePrefix + filePath,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    filePath,
	}

	var file File
	if err := jsonfile.ParseFile(filePath, &file); err != nil {
		return sceneInfo, err
	}

	if file.Name != "" {
		sceneInfo.Name = file.Name
		sceneInfo.DisplayName = file.Name
	}
	if file.Group != "" {
		sceneInfo.Group = file.Group
	}
	sceneInfo.Description = file.Description

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(dirs ...string) (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	fileScenes, err := ListFileScenes(dirs...)
	if err != nil {
		return response, errors.New("listing scene files failed").Wrap(err)
	}
	allScenes = append(allScenes, fileScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Create ordered groups (Built-in first, then alphabetical)
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtInGroup,
			Scenes: group,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
