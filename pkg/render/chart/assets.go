package chart

const stylesheet = `
body { font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5; margin: 0; }
h1 { color: #336699; text-align: center; }
.surface { display: flex; justify-content: center; }
.box { fill: #f0f8ff; stroke: #336699; stroke-width: 2; }
.box-header { fill: #336699; cursor: pointer; }
.section-name { fill: #ffffff; font-weight: bold; font-family: Arial, sans-serif; cursor: pointer; }
.code-line { white-space: pre; fill: #000000; cursor: pointer; }
.tok-instruction { fill: #0000cc; font-weight: bold; }
.tok-label-def { fill: #795e26; font-weight: bold; }
.tok-label-ref { fill: #795e26; text-decoration: underline; }
.tok-label-ref.unresolved { fill: #a31515; text-decoration: underline dotted; }
.tok-register { fill: #001080; }
.tok-numeric { fill: #098658; }
.tok-directive { fill: #af00db; }
.tok-comment { fill: #008000; font-style: italic; }
.flow-arrow { stroke: #336699; stroke-width: 2; }
.arrowhead.flow { fill: #336699; }
.connector { fill: none; stroke-width: 1.5; }
.connector.same-box { stroke: #2e7d32; }
.connector.cross-box { stroke: #1565c0; stroke-dasharray: 5 3; }
.arrowhead.same-box { fill: #2e7d32; }
.arrowhead.cross-box { fill: #1565c0; }
.placeholder { max-width: 560px; margin: 40px auto; padding: 20px; background: #f0f8ff; border: 2px solid #336699; border-radius: 8px; }
.placeholder h2 { color: #336699; margin-top: 0; }
.placeholder pre { background: #ffffff; padding: 8px; border-radius: 4px; }
`

const script = `
(function () {
  var vscode = typeof acquireVsCodeApi === 'function' ? acquireVsCodeApi() : null;
  var cfg = JSON.parse(document.getElementById('simasm-config').textContent || '{}');

  function post(url, body) {
    if (!url) { return; }
    fetch(url, { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify(body) });
  }

  function jump(line) {
    var msg = { command: 'jumpToLine', line: line };
    if (vscode) { vscode.postMessage(msg); return; }
    post(cfg.jump, msg);
  }

  document.addEventListener('click', function (e) {
    var el = e.target.closest('[data-target], [data-line]');
    if (!el) { return; }
    var v = el.hasAttribute('data-target') ? el.getAttribute('data-target') : el.getAttribute('data-line');
    jump(parseInt(v, 10));
    e.stopPropagation();
  });

  if (cfg.resize) {
    var last = '';
    window.addEventListener('resize', function () {
      var key = window.innerWidth + 'x' + window.innerHeight;
      if (key === last) { return; }
      last = key;
      post(cfg.resize, { width: window.innerWidth, height: window.innerHeight });
    });
  }

  if (cfg.revision && cfg.pollMs > 0) {
    setInterval(function () {
      fetch(cfg.revision).then(function (r) { return r.json(); }).then(function (d) {
        if (d.revision && d.revision !== cfg.current) { window.location.reload(); }
      }).catch(function () {});
    }, cfg.pollMs);
  }
})();
`
