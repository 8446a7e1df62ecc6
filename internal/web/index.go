package web

// Dashboard: live metric cards fed by SSE plus a historical chart with
// moving averages and a CSV download for the selected period.
const indexHTML = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8" />
  <title>Riesgo País Argentina</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --panel:#f6f6f6;
      --low:#1b9a57;
      --medium:#e08700;
      --high:#d7263d;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    #app {
      max-width:1200px;
      margin:0 auto;
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:flex;
      flex-direction:column;
      gap:2rem;
    }
    header { display:flex; justify-content:space-between; align-items:center; gap:1rem; }
    h1 { font-size:1rem; text-transform:uppercase; letter-spacing:.15em; margin:0; }
    .status {
      font-size:.65rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      border:2px solid var(--ink);
      padding:.4rem .9rem;
      background:#fff;
    }
    .metric-grid {
      display:grid;
      grid-template-columns:repeat(auto-fit, minmax(180px, 1fr));
      gap:1rem;
    }
    .metric {
      border:3px solid var(--ink);
      padding:1rem;
      background:#fff;
      box-shadow:6px 6px 0 rgba(0,0,0,.12);
    }
    .metric .label {
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.18em;
      color:var(--ink-mid);
    }
    .metric .value {
      margin-top:.6rem;
      font-size:1.5rem;
      font-weight:700;
    }
    .metric .value.low { color:var(--low); }
    .metric .value.medium { color:var(--medium); }
    .metric .value.high { color:var(--high); }
    .chart-box {
      border:2px solid var(--ink);
      background:#fff;
      padding:1rem;
    }
    .controls {
      display:flex;
      gap:1rem;
      align-items:center;
      flex-wrap:wrap;
      font-size:.75rem;
    }
    .controls select, .controls a {
      font-family:inherit;
      font-size:.75rem;
      border:2px solid var(--ink);
      background:#fff;
      padding:.35rem .6rem;
      color:var(--ink);
      text-decoration:none;
    }
    .error-banner {
      display:none;
      border:2px solid var(--high);
      color:var(--high);
      padding:1rem;
      font-size:.75rem;
    }
  </style>
</head>
<body>
<div id="app">
  <header>
    <h1>Riesgo País Argentina</h1>
    <div class="status" id="status">conectando…</div>
  </header>

  <div class="error-banner" id="error"></div>

  <div class="metric-grid">
    <div class="metric"><div class="label">Riesgo País</div><div class="value" id="spread">–</div></div>
    <div class="metric"><div class="label">Rend. ARG (aprox)</div><div class="value" id="argYield">–</div></div>
    <div class="metric"><div class="label">UST 10Y</div><div class="value" id="usYield">–</div></div>
    <div class="metric"><div class="label">Precio</div><div class="value" id="price">–</div></div>
    <div class="metric"><div class="label">Fuente</div><div class="value" id="source">–</div></div>
  </div>

  <div class="chart-box">
    <canvas id="liveChart" height="90"></canvas>
  </div>

  <div class="controls">
    <span>Histórico:</span>
    <select id="year"></select>
    <select id="month"></select>
    <a id="csv" href="/history.csv">⬇ CSV</a>
  </div>

  <div class="chart-box">
    <canvas id="histChart" height="110"></canvas>
  </div>
</div>

<script>
const fmt = (v, digits) => v == null ? '–' : v.toLocaleString('es-AR', {maximumFractionDigits: digits ?? 2});

const liveChart = new Chart(document.getElementById('liveChart'), {
  type: 'line',
  data: { labels: [], datasets: [{ label: 'Riesgo país (pb)', data: [], borderColor: '#111', tension: .2 }] },
  options: { animation: false, scales: { y: { beginAtZero: false } } }
});

const histChart = new Chart(document.getElementById('histChart'), {
  type: 'line',
  data: { labels: [], datasets: [
    { label: 'Riesgo país (pb)', data: [], borderColor: '#111', pointRadius: 0 },
    { label: 'MM7', data: [], borderColor: '#1b9aaa', pointRadius: 0 },
    { label: 'MM30', data: [], borderColor: '#d7263d', pointRadius: 0 }
  ]},
  options: { animation: false }
});

function applyReading(r) {
  const spread = document.getElementById('spread');
  spread.textContent = fmt(r.spread_bps, 0) + ' pb';
  spread.className = 'value ' + r.level;
  document.getElementById('argYield').textContent = fmt(r.approx_arg_yield) + ' %';
  document.getElementById('usYield').textContent = fmt(r.us_yield) + ' %';
  document.getElementById('price').textContent = fmt(r.arg_price) + ' USD';
  document.getElementById('source').textContent = r.source_used;

  liveChart.data.labels.push(new Date(r.computed_at).toLocaleTimeString());
  liveChart.data.datasets[0].data.push(r.spread_bps);
  if (liveChart.data.labels.length > 200) {
    liveChart.data.labels.shift();
    liveChart.data.datasets[0].data.shift();
  }
  liveChart.update();
}

const stream = new EventSource('/risk/stream');
stream.addEventListener('reading', ev => {
  document.getElementById('status').textContent = 'en vivo';
  applyReading(JSON.parse(ev.data));
});
stream.onerror = () => { document.getElementById('status').textContent = 'desconectado'; };

const yearSel = document.getElementById('year');
const monthSel = document.getElementById('month');
const now = new Date();
for (let y = now.getFullYear(); y >= now.getFullYear() - 5; y--) {
  yearSel.add(new Option(y, y));
}
for (let m = 1; m <= 12; m++) {
  monthSel.add(new Option(m, m));
}
monthSel.value = now.getMonth() + 1;

async function loadHistory() {
  const q = '?year=' + yearSel.value + '&month=' + monthSel.value;
  document.getElementById('csv').href = '/history.csv' + q;
  const err = document.getElementById('error');
  try {
    const resp = await fetch('/api/history' + q);
    if (!resp.ok) throw new Error('historia no disponible');
    const points = await resp.json();
    histChart.data.labels = points.map(p => p.date.slice(0, 10));
    histChart.data.datasets[0].data = points.map(p => p.spread_bps);
    histChart.data.datasets[1].data = points.map(p => p.has_ma7 ? p.ma7 : null);
    histChart.data.datasets[2].data = points.map(p => p.has_ma30 ? p.ma30 : null);
    histChart.update();
    err.style.display = 'none';
  } catch (e) {
    err.textContent = e.message;
    err.style.display = 'block';
  }
}
yearSel.onchange = loadHistory;
monthSel.onchange = loadHistory;
loadHistory();
</script>
</body>
</html>`
