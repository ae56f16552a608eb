package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard serves the single-page control UI.
func Dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Pollwatch</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
               background: #667eea; min-height: 100vh; padding: 20px; }
        .container { max-width: 700px; margin: 0 auto; background: white;
                     border-radius: 12px; overflow: hidden; }
        .header { background: #764ba2; color: white; padding: 24px; text-align: center; }
        .content { padding: 30px; }
        .form-group { margin-bottom: 20px; }
        label { display: block; margin-bottom: 6px; font-weight: 600; color: #333; }
        input { width: 100%; padding: 10px 14px; border: 2px solid #e0e0e0;
                border-radius: 8px; font-size: 15px; }
        .btn { background: #667eea; color: white; border: none; padding: 12px 24px;
               border-radius: 8px; font-size: 15px; font-weight: 600; cursor: pointer; width: 100%; }
        .btn:disabled { opacity: 0.5; cursor: not-allowed; }
        .monitor { background: #f8f9fa; border: 2px solid #e0e0e0; border-radius: 8px;
                   padding: 16px; margin-top: 14px; }
        .monitor .row { display: flex; justify-content: space-between; align-items: center; }
        .status { padding: 4px 10px; border-radius: 14px; font-size: 12px;
                  font-weight: 600; text-transform: uppercase; }
        .status.running { background: #d4edda; color: #155724; }
        .status.stopped { background: #f8d7da; color: #721c24; }
        .stop-btn { background: #dc3545; width: auto; padding: 6px 14px; font-size: 13px; margin-top: 8px; }
        .alert { padding: 10px 14px; border-radius: 8px; margin-bottom: 16px; }
        .alert.success { background: #d4edda; color: #155724; }
        .alert.error { background: #f8d7da; color: #721c24; }
        .muted { color: #666; font-size: 13px; margin-top: 4px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>&#128222; Pollwatch</h1>
            <p>Get a phone call when a poll goes live</p>
        </div>
        <div class="content">
            <form id="monitorForm">
                <div class="form-group">
                    <label for="pollUrl">Poll Everywhere URL</label>
                    <input type="text" id="pollUrl" placeholder="https://pe.app/alice" required>
                </div>
                <div class="form-group">
                    <label for="phoneNumber">Your Phone Number</label>
                    <input type="tel" id="phoneNumber" placeholder="+15551234567" required>
                    <div class="muted">Include country code. Comma-separate for more than one.</div>
                </div>
                <button type="submit" class="btn" id="submitBtn">Start Monitoring</button>
            </form>
            <div id="alertContainer" style="margin-top:16px"></div>
            <div style="margin-top:24px">
                <h2>Active Monitors</h2>
                <div id="monitorsList"></div>
            </div>
        </div>
    </div>
    <script>
        function showAlert(message, type) {
            const box = document.getElementById('alertContainer');
            box.innerHTML = '<div class="alert ' + type + '">' + message + '</div>';
            setTimeout(() => box.innerHTML = '', 5000);
        }

        function loadMonitors() {
            fetch('/api/monitors').then(r => r.json()).then(data => {
                const list = document.getElementById('monitorsList');
                const monitors = data.monitors || [];
                if (monitors.length === 0) {
                    list.innerHTML = '<p class="muted">No active monitors</p>';
                    return;
                }
                list.innerHTML = monitors.map(m =>
                    '<div class="monitor">' +
                    '<div class="row"><strong>' + m['poll-url'] + '</strong>' +
                    '<span class="status ' + m.status + '">' + m.status + '</span></div>' +
                    '<div class="muted">&#128222; ' + m['phone-numbers'].join(', ') + '</div>' +
                    (m['last-activity'] ? '<div class="muted">Activity: ' + m['last-activity'] + '</div>' : '') +
                    (m.status === 'running'
                        ? '<button class="btn stop-btn" onclick="stopMonitor(\'' + m.id + '\')">Stop</button>'
                        : '') +
                    '</div>').join('');
            });
        }

        function stopMonitor(id) {
            fetch('/api/monitors/' + id + '/stop', { method: 'POST' })
                .then(r => r.json())
                .then(data => {
                    if (data.ok) { showAlert('Monitor stopped', 'success'); loadMonitors(); }
                    else { showAlert(data.message || 'Failed to stop monitor', 'error'); }
                });
        }

        document.getElementById('monitorForm').addEventListener('submit', e => {
            e.preventDefault();
            const btn = document.getElementById('submitBtn');
            btn.disabled = true;
            fetch('/api/monitors/start', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({
                    'poll-url': document.getElementById('pollUrl').value,
                    'phone-number': document.getElementById('phoneNumber').value
                })
            })
            .then(r => r.json())
            .then(data => {
                if (data.ok) { showAlert('Monitor started!', 'success'); e.target.reset(); loadMonitors(); }
                else { showAlert(data.message || 'Failed to start monitor', 'error'); }
            })
            .finally(() => { btn.disabled = false; });
        });

        loadMonitors();
        setInterval(loadMonitors, 5000);
    </script>
</body>
</html>
`
