package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/ultrabuild/ultrabuild/domain"
)

const (
	manifestFile   = "package.json"
	readmeFile     = "README.md"
	typeConfigFile = "tsconfig.json"
	ignoreFile     = ".gitignore"
)

// npmPackages maps stack entries to the npm packages they pull in
var npmPackages = map[string]map[string]string{
	"React":        {"react": "^18.3.1", "react-dom": "^18.3.1"},
	"Next.js":      {"next": "^14.2.5", "react": "^18.3.1", "react-dom": "^18.3.1"},
	"Phaser":       {"phaser": "^3.80.1"},
	"Three.js":     {"three": "^0.167.0"},
	"PixiJS":       {"pixi.js": "^8.2.5"},
	"Express":      {"express": "^4.19.2"},
	"Fastify":      {"fastify": "^4.28.1"},
	"Socket.IO":    {"socket.io": "^4.7.5"},
	"tRPC":         {"@trpc/server": "^10.45.2"},
	"Stripe":       {"stripe": "^16.5.0"},
	"NestJS":       {"@nestjs/core": "^10.3.10"},
	"Recharts":     {"recharts": "^2.12.7"},
	"React Native": {"react-native": "^0.74.3"},
	"Expo":         {"expo": "^51.0.22"},
}

var npmDevPackages = map[string]map[string]string{
	"TypeScript":   {"typescript": "^5.5.4"},
	"ESLint":       {"eslint": "^9.8.0"},
	"Prettier":     {"prettier": "^3.3.3"},
	"Vitest":       {"vitest": "^2.0.5"},
	"Jest":         {"jest": "^29.7.0"},
	"Vite":         {"vite": "^5.3.5"},
	"Tailwind CSS": {"tailwindcss": "^3.4.7"},
	"Playwright":   {"@playwright/test": "^1.46.0"},
}

type packageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Description     string            `json:"description,omitempty"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// synthesizeFiles produces the file set for a project
func synthesizeFiles(p *domain.GeneratedProject) (map[string]string, error) {
	manifest, err := renderManifest(p)
	if err != nil {
		return nil, err
	}

	files := map[string]string{
		manifestFile:   manifest,
		readmeFile:     renderReadme(p),
		typeConfigFile: typeConfig,
		ignoreFile:     gitignore,
	}

	sources, err := renderSources(p)
	if err != nil {
		return nil, err
	}
	for name, content := range sources {
		files[name] = content
	}
	return files, nil
}

func scriptsFor(t domain.ProjectType) map[string]string {
	if t == domain.ProjectTypeAPI {
		return map[string]string{
			"dev":   "tsx watch src/server.ts",
			"build": "tsc -p .",
			"start": "node dist/server.js",
			"test":  "vitest run",
		}
	}
	return map[string]string{
		"dev":     "vite",
		"build":   "tsc && vite build",
		"preview": "vite preview",
		"test":    "vitest run",
	}
}

func renderManifest(p *domain.GeneratedProject) (string, error) {
	m := packageManifest{
		Name:            p.Slug,
		Version:         "0.1.0",
		Private:         true,
		Description:     p.Description,
		Type:            "module",
		Scripts:         scriptsFor(p.Type),
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{"typescript": "^5.5.4"},
	}

	layers := [][]string{p.TechStack.Frontend, p.TechStack.Backend}
	for _, layer := range layers {
		for _, tech := range layer {
			for pkg, version := range npmPackages[tech] {
				m.Dependencies[pkg] = version
			}
		}
	}
	for _, tool := range p.TechStack.Tools {
		for pkg, version := range npmDevPackages[tool] {
			m.DevDependencies[pkg] = version
		}
	}
	if p.Type == domain.ProjectTypeAPI {
		m.DevDependencies["tsx"] = "^4.16.5"
	} else {
		m.DevDependencies["vite"] = "^5.3.5"
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", manifestFile, err)
	}
	return string(data) + "\n", nil
}

func renderReadme(p *domain.GeneratedProject) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}

	if len(p.Features) > 0 {
		b.WriteString("## Features\n\n")
		for _, f := range p.Features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Tech Stack\n\n")
	for _, row := range []struct {
		label string
		items []string
	}{
		{"Frontend", p.TechStack.Frontend},
		{"Backend", p.TechStack.Backend},
		{"Database", p.TechStack.Database},
		{"Deployment", p.TechStack.Deployment},
		{"Tools", p.TechStack.Tools},
	} {
		if len(row.items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", row.label, strings.Join(row.items, ", "))
	}

	fmt.Fprintf(&b, "\nComplexity: `%s`\n\n", p.Complexity)
	b.WriteString("## Getting Started\n\n```bash\nnpm install\nnpm run dev\n```\n")
	return b.String()
}

const typeConfig = `{
  "compilerOptions": {
    "target": "ES2022",
    "module": "ESNext",
    "moduleResolution": "Bundler",
    "jsx": "react-jsx",
    "strict": true,
    "esModuleInterop": true,
    "skipLibCheck": true,
    "outDir": "dist"
  },
  "include": ["src"]
}
`

const gitignore = `node_modules/
dist/
.next/
coverage/
.env
.env.local
*.log
`

var sourceTemplates = template.Must(template.New("sources").Parse(`
{{define "game-main"}}import Phaser from 'phaser';

class MainScene extends Phaser.Scene {
  constructor() {
    super('main');
  }

  create() {
    this.add.text(400, 300, '{{.Name}}', { fontSize: '32px' }).setOrigin(0.5);
  }
}

new Phaser.Game({
  type: Phaser.AUTO,
  width: 800,
  height: 600,
  scene: [MainScene],
});
{{end}}
{{define "game-html"}}<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>{{.Name}}</title>
  </head>
  <body>
    <script type="module" src="/src/main.ts"></script>
  </body>
</html>
{{end}}
{{define "website-html"}}<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Name}}</title>
  </head>
  <body>
    <main id="app">
      <h1>{{.Name}}</h1>
      <p>{{.Description}}</p>
    </main>
    <script type="module" src="/src/main.ts"></script>
  </body>
</html>
{{end}}
{{define "website-main"}}const app = document.querySelector<HTMLElement>('#app');
{{range .Features}}
console.info('feature: {{.}}');
{{- end}}

export function mount(): void {
  app?.classList.add('ready');
}

mount();
{{end}}
{{define "app-component"}}import { useState } from 'react';

export default function App() {
  const [count, setCount] = useState(0);

  return (
    <main>
      <h1>{{.Name}}</h1>
      <ul>
{{- range .Features}}
        <li>{{.}}</li>
{{- end}}
      </ul>
      <button onClick={() => setCount((c) => c + 1)}>clicked {count} times</button>
    </main>
  );
}
{{end}}
{{define "app-main"}}import { StrictMode } from 'react';
import { createRoot } from 'react-dom/client';
import App from './App';

createRoot(document.getElementById('root')!).render(
  <StrictMode>
    <App />
  </StrictMode>,
);
{{end}}
{{define "api-server"}}import express from 'express';

const app = express();
app.use(express.json());

app.get('/health', (_req, res) => {
  res.json({ status: 'ok', service: '{{.Slug}}' });
});

const port = Number(process.env.PORT ?? 3000);
app.listen(port, () => {
  console.log('{{.Name}} listening on ' + port);
});
{{end}}
{{define "default-index"}}export function main(): void {
  console.log('{{.Name}}');
}

main();
{{end}}
`))

func renderSources(p *domain.GeneratedProject) (map[string]string, error) {
	var names map[string]string
	switch p.Type {
	case domain.ProjectTypeGame:
		names = map[string]string{"src/main.ts": "game-main", "index.html": "game-html"}
	case domain.ProjectTypeWebsite:
		names = map[string]string{"index.html": "website-html", "src/main.ts": "website-main"}
	case domain.ProjectTypeApp, domain.ProjectTypeWebApp:
		names = map[string]string{"src/App.tsx": "app-component", "src/main.tsx": "app-main"}
	case domain.ProjectTypeAPI:
		names = map[string]string{"src/server.ts": "api-server"}
	default:
		names = map[string]string{"src/index.ts": "default-index"}
	}

	out := make(map[string]string, len(names))
	for file, tmpl := range names {
		var buf bytes.Buffer
		if err := sourceTemplates.ExecuteTemplate(&buf, tmpl, p); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", file, err)
		}
		out[file] = buf.String()
	}
	return out, nil
}
