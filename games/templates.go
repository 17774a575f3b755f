package games

import "text/template"

var gameTemplates = template.Must(template.New("games").Parse(`
{{- define "html" -}}
<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>{{.Title}}</title>
    <style>html, body { margin: 0; background: #111; }</style>
  </head>
  <body>
    <div id="game"></div>
    <script type="module" src="/src/main.ts"></script>
  </body>
</html>
{{end}}

{{- define "phaser" -}}
import Phaser from 'phaser';
import config from './config.json';

// {{.Title}}{{if .Description}}: {{.Description}}{{end}}
class MainScene extends Phaser.Scene {
  constructor() {
    super('main');
  }

  create() {
    this.add.text(16, 16, '{{.Title}}', { color: '#ffffff' });
  }

  update() {}
}

new Phaser.Game({
  type: Phaser.AUTO,
  parent: 'game',
  width: config.width,
  height: config.height,
  physics: { default: 'arcade', arcade: { gravity: { x: 0, y: config.gravity ?? 0 } } },
  scene: [MainScene],
});
{{end}}

{{- define "three" -}}
import * as THREE from 'three';
import config from './config.json';

const scene = new THREE.Scene();
const camera = new THREE.PerspectiveCamera(config.fov, config.width / config.height, 0.1, 1000);
const renderer = new THREE.WebGLRenderer({ antialias: true });
renderer.setSize(config.width, config.height);
document.getElementById('game')!.appendChild(renderer.domElement);

scene.add(new THREE.AmbientLight(0xffffff, 0.6));
const cube = new THREE.Mesh(new THREE.BoxGeometry(), new THREE.MeshStandardMaterial({ color: 0x44aa88 }));
scene.add(cube);
camera.position.z = 3;

function animate() {
  requestAnimationFrame(animate);
  cube.rotation.y += 0.01;
  renderer.render(scene, camera);
}
animate();
{{end}}

{{- define "multiplayer" -}}
import { io } from 'socket.io-client';
import config from './config.json';

const socket = io();
const players = new Map<string, { x: number; y: number }>();

socket.on('state', (state: Record<string, { x: number; y: number }>) => {
  players.clear();
  for (const [id, pos] of Object.entries(state)) players.set(id, pos);
});

console.log('{{.Title}} client, up to', config.maxPlayers, 'players');
{{end}}

{{- define "server" -}}
import express from 'express';
import { createServer } from 'http';
import { Server } from 'socket.io';
import config from './src/config.json';

const app = express();
const server = createServer(app);
const io = new Server(server);
const state: Record<string, { x: number; y: number }> = {};

io.on('connection', (socket) => {
  if (Object.keys(state).length >= config.maxPlayers) {
    socket.disconnect();
    return;
  }
  state[socket.id] = { x: 0, y: 0 };
  socket.on('disconnect', () => delete state[socket.id]);
});

setInterval(() => io.emit('state', state), 1000 / config.tickRate);
server.listen(config.port);
{{end}}

{{- define "card" -}}
import config from './config.json';

type Card = { suit: string; rank: number };

const suits = ['hearts', 'diamonds', 'clubs', 'spades'];

export function buildDeck(size = config.deckSize): Card[] {
  const deck: Card[] = [];
  for (let i = 0; i < size; i++) deck.push({ suit: suits[i % suits.length], rank: (i % 13) + 1 });
  return deck;
}

export function shuffle<T>(items: T[]): T[] {
  for (let i = items.length - 1; i > 0; i--) {
    const j = Math.floor(Math.random() * (i + 1));
    [items[i], items[j]] = [items[j], items[i]];
  }
  return items;
}

const deck = shuffle(buildDeck());
const hands = Array.from({ length: config.maxPlayers }, () => deck.splice(0, config.handSize));
console.log('{{.Title}}', hands);
{{end}}

{{- define "board" -}}
import config from './config.json';

type Cell = number | null;

export const board: Cell[][] = Array.from({ length: config.boardSize }, () =>
  Array.from({ length: config.boardSize }, () => null),
);

let current = 0;

export function place(row: number, col: number): boolean {
  if (board[row]?.[col] !== null) return false;
  board[row][col] = current;
  current = (current + 1) % config.maxPlayers;
  return true;
}

console.log('{{.Title}} board', config.boardSize, 'x', config.boardSize);
{{end}}

{{- define "rpg" -}}
import config from './config.json';

type Character = { name: string; level: number; hp: number; attack: number };

const baseStats: Record<string, Omit<Character, 'name' | 'level'>> = {
{{- range .Config.classes}}
  '{{.}}': { hp: 100, attack: 10 },
{{- end}}
};

export function createCharacter(name: string, cls: string): Character {
  const stats = baseStats[cls] ?? { hp: 80, attack: 8 };
  return { name, level: config.startingLevel, ...stats };
}

console.log('{{.Title}} classes:', Object.keys(baseStats));
{{end}}

{{- define "strategy" -}}
import config from './config.json';

type Faction = { name: string; gold: number; units: number };

export const factions: Faction[] = [
{{- range .Config.factions}}
  { name: '{{.}}', gold: config.startingGold, units: 0 },
{{- end}}
];

export function recruit(faction: Faction, cost = 10): boolean {
  if (faction.gold < cost) return false;
  faction.gold -= cost;
  faction.units++;
  return true;
}

console.log('{{.Title}}', factions.map((f) => f.name));
{{end}}
`))
