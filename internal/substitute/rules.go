package substitute

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Tokens embedded in the bundled template.
const (
	TokenAppName    = "__APP_NAME__"
	TokenDevPort    = "__DEV_PORT__"
	TokenProdPort   = "__PROD_PORT__"
	TokenAppVersion = "__APP_VERSION__"
)

// Reference values of the non-tokenized template.
const (
	legacyAppName  = "demo"
	legacyDevPort  = 8080
	legacyProdPort = 8081

	// containerPort is the port nginx listens on inside the network.
	containerPort = 8080
)

// Target files, relative to the scaffold root.
const (
	DevCompose      = "docker-compose.dev.yml"
	ProdCompose     = "docker-compose.prod.yml"
	BackendPackage  = "backend/package.json"
	FrontendPackage = "frontend/package.json"
	FrontendIndex   = "frontend/index.html"
	Readme          = "README.md"
)

var (
	localhostURL = regexp.MustCompile(`http://localhost:(` +
		strconv.Itoa(legacyDevPort) + `|` + strconv.Itoa(legacyProdPort) + `)\b`)
	platformLine = regexp.MustCompile(`(?m)^([ \t]*)platform:[ \t]*[^\s#][^\r\n]*`)
)

// PortConflictError reports a port choice that collides with the reference
// URLs of the non-tokenized template.
type PortConflictError struct {
	Which string // "dev" or "prod"
	Port  int
}

func (e *PortConflictError) Error() string {
	return fmt.Sprintf("%s port %d collides with reference URL port %d of the %s environment",
		e.Which, e.Port, e.Port, e.other())
}

func (e *PortConflictError) other() string {
	if e.Which == "dev" {
		return "prod"
	}
	return "dev"
}

// CheckPorts rejects port choices under which the reference URL rewrite is
// not idempotent: a development port equal to the production reference port
// (8081) or a production port equal to the development reference port
// (8080). Either would be read back as the other environment's URL on a
// later run. Reusing the reference port of the same environment is fine.
func CheckPorts(dev, prod int) error {
	if dev == legacyProdPort && prod != legacyProdPort {
		return &PortConflictError{Which: "dev", Port: dev}
	}
	if prod == legacyDevPort && dev != legacyDevPort {
		return &PortConflictError{Which: "prod", Port: prod}
	}
	return nil
}

// Values are the resolved inputs substituted into the template.
type Values struct {
	AppName  string
	DevPort  int
	ProdPort int
	Version  string
	Platform string // empty leaves platform directives untouched
}

// FilePlan pairs a target file with its two rule sets.
type FilePlan struct {
	Path   string // slash-separated, relative to the scaffold root
	Token  RuleSet
	Legacy RuleSet
}

// DefaultPlan returns the rule sets for every generated file that carries
// project-specific values.
func DefaultPlan(v Values) []FilePlan {
	app := v.AppName
	dev := strconv.Itoa(v.DevPort)
	prod := strconv.Itoa(v.ProdPort)

	devLegacy := []Rule{
		containerName("demo-mysql", app+"-mysql"),
		containerName("demo-redis", app+"-redis"),
		containerName("demo-backend", app+"-backend"),
		containerName("demo-frontend", app+"-frontend"),
		containerName("demo-nginx", app+"-nginx"),
		publishedPort(legacyDevPort, v.DevPort),
	}
	prodLegacy := []Rule{
		containerName("demo-mysql-prod", app+"-mysql-prod"),
		containerName("demo-redis-prod", app+"-redis-prod"),
		containerName("demo-backend-prod", app+"-backend-prod"),
		containerName("demo-frontend-prod", app+"-frontend-prod"),
		containerName("demo-nginx-prod", app+"-nginx-prod"),
		imageName("demo-backend:prod", app+"-backend:prod"),
		imageName("demo-frontend:prod", app+"-frontend:prod"),
		publishedPort(legacyProdPort, v.ProdPort),
	}
	if v.Platform != "" {
		devLegacy = append(devLegacy, platform(v.Platform))
		prodLegacy = append(prodLegacy, platform(v.Platform))
	}

	return []FilePlan{
		{
			Path:   DevCompose,
			Token:  tokens(Literal(TokenAppName, app), Literal(TokenDevPort, dev)),
			Legacy: legacy(devLegacy...),
		},
		{
			Path:   ProdCompose,
			Token:  tokens(Literal(TokenAppName, app), Literal(TokenProdPort, prod)),
			Legacy: legacy(prodLegacy...),
		},
		{
			Path:   BackendPackage,
			Token:  tokens(Literal(TokenAppName, app)),
			Legacy: legacy(Literal(`"name": "demo-backend"`, fmt.Sprintf(`"name": "%s-backend"`, app))),
		},
		{
			Path:   FrontendPackage,
			Token:  tokens(Literal(TokenAppName, app)),
			Legacy: legacy(Literal(`"name": "demo-frontend"`, fmt.Sprintf(`"name": "%s-frontend"`, app))),
		},
		{
			Path:  FrontendIndex,
			Token: tokens(Literal(TokenAppName, app)),
		},
		{
			Path: Readme,
			Token: tokens(
				Literal(TokenDevPort, dev),
				Literal(TokenProdPort, prod),
				Literal(TokenAppName, app),
				Literal(TokenAppVersion, v.Version),
			),
			Legacy: legacy(localURLs(v.DevPort, v.ProdPort).UnlessPresent(TokenDevPort, TokenProdPort)),
		},
	}
}

func tokens(rules ...Rule) RuleSet { return RuleSet{Name: "token", Rules: rules} }
func legacy(rules ...Rule) RuleSet { return RuleSet{Name: "legacy", Rules: rules} }

// containerName rewrites a container_name directive whose whole value is old.
func containerName(old, replacement string) Rule {
	return directive("container_name", old, replacement)
}

// imageName rewrites an image directive whose whole value is old.
func imageName(old, replacement string) Rule {
	return directive("image", old, replacement)
}

// directive matches "key: old" as a complete YAML line, so a value that
// merely starts with old (such as an already substituted name) is left alone.
func directive(key, old, replacement string) Rule {
	re := regexp.MustCompile(`(?m)^([ \t]*(?:-[ \t]+)?` + regexp.QuoteMeta(key) + `:[ \t]*)` +
		regexp.QuoteMeta(old) + `([ \t]*\r?)$`)
	return Pattern(key+": "+old, re, "${1}"+escapeExpand(replacement)+"${2}")
}

// publishedPort rewrites a "<host>:<container>" port mapping whose host side
// is the reference port. Adjacent digits are part of the match, so
// "18080:8080" or "8080:80801" never count as the reference mapping.
func publishedPort(legacyHost, host int) Rule {
	mapping := fmt.Sprintf("%d:%d", legacyHost, containerPort)
	replacement := fmt.Sprintf("%d:%d", host, containerPort)
	re := regexp.MustCompile(`[0-9]*` + regexp.QuoteMeta(mapping) + `[0-9]*`)
	return PatternFunc(mapping, re, func(match string) string {
		if match != mapping {
			return match
		}
		return replacement
	})
}

// localURLs rewrites both reference base URLs in a single pass, so a
// development port equal to the production reference port is not rewritten
// again by the production rule.
func localURLs(dev, prod int) Rule {
	devURL := fmt.Sprintf("http://localhost:%d", dev)
	prodURL := fmt.Sprintf("http://localhost:%d", prod)
	return PatternFunc("http://localhost", localhostURL, func(match string) string {
		if strings.HasSuffix(match, ":"+strconv.Itoa(legacyDevPort)) {
			return devURL
		}
		return prodURL
	})
}

// platform rewrites every platform directive line.
func platform(value string) Rule {
	return Pattern("platform", platformLine, "${1}platform: "+escapeExpand(value))
}
