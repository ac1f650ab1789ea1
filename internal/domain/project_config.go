package domain

import (
	"reflect"
	"strings"
	"time"
)

// ProjectConfigID identifica el único documento de configuración.
const ProjectConfigID = "project"

type ConfigOption struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

type AppVersion struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// ProjectConfig es el documento singleton de opciones de presentación.
type ProjectConfig struct {
	AppName                     string         `json:"appName" bson:"appName"`
	AppIconPaths                []string       `json:"appIconPaths" bson:"appIconPaths"`
	AppLogoURL                  *string        `json:"appLogoUrl" bson:"appLogoUrl"`
	FaviconURL                  *string        `json:"faviconUrl" bson:"faviconUrl"`
	AvailableAccentColors       []ConfigOption `json:"availableAccentColors" bson:"availableAccentColors"`
	DefaultAccentColorName      string         `json:"defaultAccentColorName" bson:"defaultAccentColorName"`
	AvailableBorderRadii        []ConfigOption `json:"availableBorderRadii" bson:"availableBorderRadii"`
	DefaultBorderRadiusName     string         `json:"defaultBorderRadiusName" bson:"defaultBorderRadiusName"`
	AvailableAppVersions        []AppVersion   `json:"availableAppVersions" bson:"availableAppVersions"`
	DefaultAppVersionID         string         `json:"defaultAppVersionId" bson:"defaultAppVersionId"`
	EnableApplicationConfig     bool           `json:"enableApplicationConfig" bson:"enableApplicationConfig"`
	AvailableFontSizes          []ConfigOption `json:"availableFontSizes" bson:"availableFontSizes"`
	DefaultFontSizeName         string         `json:"defaultFontSizeName" bson:"defaultFontSizeName"`
	AvailableScales             []ConfigOption `json:"availableScales" bson:"availableScales"`
	DefaultScaleName            string         `json:"defaultScaleName" bson:"defaultScaleName"`
	AvailableInterfaceDensities []ConfigOption `json:"availableInterfaceDensities" bson:"availableInterfaceDensities"`
	DefaultInterfaceDensity     string         `json:"defaultInterfaceDensity" bson:"defaultInterfaceDensity"`
	MockAPIMode                 bool           `json:"mockApiMode" bson:"mockApiMode"`
	CreatedAt                   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt                   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// DefaultProjectConfig devuelve el documento sembrado en el primer arranque.
func DefaultProjectConfig(mockAPIMode bool) ProjectConfig {
	logo := "/mantra_collab_logo.ico"
	favicon := "/favicon.ico"
	return ProjectConfig{
		AppName:      "Genesis API",
		AppIconPaths: []string{"/icons/app-icon.png"},
		AppLogoURL:   &logo,
		FaviconURL:   &favicon,
		AvailableAccentColors: []ConfigOption{
			{Name: "Blue", Value: "#0077FF"},
			{Name: "Green", Value: "#00CC66"},
			{Name: "Purple", Value: "#6B46C1"},
		},
		DefaultAccentColorName: "Blue",
		AvailableBorderRadii: []ConfigOption{
			{Name: "None", Value: "0px"},
			{Name: "Small", Value: "4px"},
			{Name: "Medium", Value: "8px"},
			{Name: "Large", Value: "12px"},
		},
		DefaultBorderRadiusName: "Medium",
		AvailableAppVersions: []AppVersion{
			{ID: "v1", Name: "Version 1.0", Value: "1.0.0"},
		},
		DefaultAppVersionID:     "v1",
		EnableApplicationConfig: true,
		AvailableFontSizes: []ConfigOption{
			{Name: "Small", Value: "14px"},
			{Name: "Medium", Value: "16px"},
			{Name: "Large", Value: "18px"},
		},
		DefaultFontSizeName: "Medium",
		AvailableScales: []ConfigOption{
			{Name: "Compact", Value: "0.9"},
			{Name: "Normal", Value: "1.0"},
			{Name: "Large", Value: "1.1"},
		},
		DefaultScaleName: "Normal",
		AvailableInterfaceDensities: []ConfigOption{
			{Name: "Compact", Value: "compact"},
			{Name: "Comfortable", Value: "comfortable"},
			{Name: "Spacious", Value: "spacious"},
		},
		DefaultInterfaceDensity: "comfortable",
		MockAPIMode:             mockAPIMode,
	}
}

// ProjectConfigField describe una clave editable del documento.
type ProjectConfigField struct {
	Key      string
	Type     reflect.Type
	Nullable bool
}

var projectConfigFields = func() map[string]ProjectConfigField {
	fields := make(map[string]ProjectConfigField)
	t := reflect.TypeOf(ProjectConfig{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := strings.Split(f.Tag.Get("json"), ",")[0]
		if key == "" || key == "-" || key == "createdAt" || key == "updatedAt" {
			continue
		}
		fields[key] = ProjectConfigField{
			Key:      key,
			Type:     f.Type,
			Nullable: f.Type.Kind() == reflect.Pointer,
		}
	}
	return fields
}()

// LookupProjectConfigField busca la clave exacta (sensible a mayúsculas).
func LookupProjectConfigField(key string) (ProjectConfigField, bool) {
	f, ok := projectConfigFields[key]
	return f, ok
}
