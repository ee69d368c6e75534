package panel

import (
	"context"
	"strings"

	"github.com/devicelab-dev/exploration-panel/pkg/api"
	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

const driverErrorTitle = "Error al verificar ChromeDriver:"

// SetDriverPath sets the ChromeDriver path input, injecting the widget if
// it is not shown yet.
func (c *Controller) SetDriverPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Driver.Inject(c.defaultDriverPath)
	c.view.Driver.Path.Value = path
}

// DriverPath returns the trimmed ChromeDriver path input.
func (c *Controller) DriverPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Driver.PathValue()
}

// VerifyDriver runs the verification script against the configured path
// and renders its output, replacing any previous verification log.
func (c *Controller) VerifyDriver(ctx context.Context) (*view.LogBlock, error) {
	path := c.DriverPath()
	if path == "" {
		c.mu.Lock()
		c.notify(view.LevelWarning, msgDriverRequired)
		c.mu.Unlock()
		return nil, core.ErrDriverPathRequired
	}

	c.beginLoading(msgVerifyingDriver)
	result, err := c.svc.ExecuteSimpleTest(ctx, api.SimpleTestRequest{
		TestCode:         VerificationScript(path),
		ChromeDriverPath: path,
	})
	c.endLoading()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.notify(view.LevelError, msgDriverError+err.Error())
		return nil, err
	}

	var block *view.LogBlock
	if result.Status.IsSuccess() {
		block = view.NewLogBlock(true, msgDriverLogsTitle, result.LogLines())
		c.notify(view.LevelSuccess, msgDriverOK)
	} else {
		block = view.NewLogBlock(false, driverErrorTitle, result.ErrorLines())
		c.notify(view.LevelError, msgDriverError+result.Message)
	}
	c.view.Driver.SetLogs(block)
	return block, nil
}

var pyStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// VerificationScript returns the Python script that starts ChromeDriver at
// path, opens a page and prints ✅/❌ marked progress lines.
func VerificationScript(path string) string {
	return strings.Replace(verificationTemplate, "{{PATH}}", pyStringEscaper.Replace(path), 1)
}

const verificationTemplate = `
from selenium import webdriver
from selenium.webdriver.chrome.service import Service
from selenium.webdriver.chrome.options import Options
import os
import time

chrome_driver_path = "{{PATH}}"
print(f"Verificando ChromeDriver en: {chrome_driver_path}")

try:
    options = Options()
    options.add_argument("--start-maximized")

    if os.path.exists(chrome_driver_path):
        print(f"El archivo ChromeDriver existe en la ruta especificada")
        service = Service(executable_path=chrome_driver_path)
        driver = webdriver.Chrome(service=service, options=options)
        print("✅ ChromeDriver inicializado correctamente")

        driver.get("https://www.google.com")
        print(f"Navegador abierto con título: {driver.title}")

        time.sleep(2)
        driver.quit()
        print("✅ Verificación completada con éxito")
    else:
        print(f"❌ Error: No se encontró el archivo en {chrome_driver_path}")

except Exception as e:
    print(f"❌ Error al inicializar ChromeDriver: {str(e)}")
`
