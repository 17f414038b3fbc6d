package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// scaffoldTemplate describes the starter tree for one platform. File paths
// and contents may use the {{APP_NAME}} and {{PACKAGE_NAME}} placeholders.
type scaffoldTemplate struct {
	files map[string]string
	// executables lists relative paths written with the execute bit set.
	executables []string
}

const androidRootGradle = `buildscript {
    repositories {
        google()
        mavenCentral()
    }
}

allprojects {
    repositories {
        google()
        mavenCentral()
    }
}
`

const androidAppGradle = `plugins {
    id 'com.android.application'
    id 'org.jetbrains.kotlin.android'
}

android {
    namespace '{{PACKAGE_NAME}}'
    compileSdk 34

    defaultConfig {
        applicationId "{{PACKAGE_NAME}}"
        minSdk 24
        targetSdk 34
        versionCode 1
        versionName "1.0"
    }
}
`

const androidManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application android:label="{{APP_NAME}}">
        <activity android:name="{{PACKAGE_NAME}}.MainActivity" android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>
</manifest>
`

const androidMainActivity = `package {{PACKAGE_NAME}}

import android.app.Activity
import android.os.Bundle

class MainActivity : Activity() {
    override fun onCreate(savedInstanceState: Bundle?) {
        super.onCreate(savedInstanceState)
    }
}
`

const gradlewStub = `#!/bin/sh
# Delegates to an installed Gradle until the wrapper jar is generated.
# Run 'gradle wrapper' once to replace this stub.
exec gradle "$@"
`

const gradlewBatStub = `@rem Delegates to an installed Gradle until the wrapper jar is generated.
@rem Run 'gradle wrapper' once to replace this stub.
gradle %*
`

const pbxprojStub = `// !$*UTF8*$!
// Minimal project stub for {{APP_NAME}}. Open in Xcode to regenerate.
{
    archiveVersion = 1;
    objectVersion = 56;
}
`

const swiftMain = `import Foundation

print("{{APP_NAME}} starting")
`

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>CFBundleName</key>
    <string>{{APP_NAME}}</string>
    <key>CFBundleIdentifier</key>
    <string>{{PACKAGE_NAME}}</string>
</dict>
</plist>
`

const csprojStub = `<Project Sdk="Microsoft.NET.Sdk">

  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>net8.0</TargetFramework>
    <RootNamespace>{{PACKAGE_NAME}}</RootNamespace>
  </PropertyGroup>

</Project>
`

const programCs = `namespace {{PACKAGE_NAME}};

class Program
{
    static void Main(string[] args)
    {
        System.Console.WriteLine("{{APP_NAME}} starting");
    }
}
`

const packageJSON = `{
  "name": "{{PACKAGE_NAME}}",
  "version": "1.0.0",
  "private": true,
  "scripts": {
    "build": "node build.js",
    "build:dev": "node build.js --dev",
    "dev": "node build.js --serve",
    "test": "node --test"
  }
}
`

const webBuildJS = `// Placeholder build pipeline for {{APP_NAME}}; replace with your bundler.
const fs = require('fs');
fs.mkdirSync('dist', { recursive: true });
fs.copyFileSync('index.html', 'dist/index.html');
console.log('{{APP_NAME}} built');
`

const webIndexHTML = `<!doctype html>
<html>
  <head><title>{{APP_NAME}}</title></head>
  <body><h1>{{APP_NAME}}</h1></body>
</html>
`

const scaffoldMainPoh = `Start Program

Write "Hello from {{APP_NAME}}!"

End Program
`

// scaffolds holds the starter layout per platform. Each layout satisfies the
// structure checks its builder performs before running the native tool.
var scaffolds = map[Platform]scaffoldTemplate{
	Android: {
		files: map[string]string{
			"settings.gradle":                   "rootProject.name = \"{{APP_NAME}}\"\ninclude ':app'\n",
			"build.gradle":                      androidRootGradle,
			"gradlew":                           gradlewStub,
			"gradlew.bat":                       gradlewBatStub,
			"app/build.gradle":                  androidAppGradle,
			"app/src/main/AndroidManifest.xml":  androidManifest,
			"app/src/main/java/MainActivity.kt": androidMainActivity,
			"app/src/main/poh/main.poh":         scaffoldMainPoh,
		},
		executables: []string{"gradlew"},
	},
	IOS: {
		files: map[string]string{
			"{{APP_NAME}}.xcodeproj/project.pbxproj": pbxprojStub,
			"Sources/main.swift":                     swiftMain,
			"Sources/main.poh":                       scaffoldMainPoh,
			"Info.plist":                             infoPlist,
		},
	},
	MacOS: {
		files: map[string]string{
			"{{APP_NAME}}.xcodeproj/project.pbxproj": pbxprojStub,
			"Sources/main.swift":                     swiftMain,
			"Sources/main.poh":                       scaffoldMainPoh,
			"Info.plist":                             infoPlist,
		},
	},
	Windows: {
		files: map[string]string{
			"{{APP_NAME}}.csproj": csprojStub,
			"Program.cs":          programCs,
			"src/main.poh":        scaffoldMainPoh,
		},
	},
	Web: {
		files: map[string]string{
			"package.json": packageJSON,
			"build.js":     webBuildJS,
			"index.html":   webIndexHTML,
			"src/index.js": "console.log('{{APP_NAME}} loaded');\n",
			"src/main.poh": scaffoldMainPoh,
		},
	},
}

// DefaultPackageName derives a reverse-DNS identifier from the project name.
func DefaultPackageName(name string) string {
	return "com.pohlang." + strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// Scaffold creates a new platform project named name under outputDir and
// returns the project directory. An empty packageName derives one from the
// project name. The directory must not already exist; a partially written
// tree is removed on failure.
func Scaffold(p Platform, name, outputDir, packageName string) (string, error) {
	tmpl, ok := scaffolds[p]
	if !ok {
		return "", fmt.Errorf("no project scaffold for platform %s", p)
	}

	if packageName == "" {
		packageName = DefaultPackageName(name)
	}

	dir := filepath.Join(outputDir, name)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("directory %s already exists", dir)
	}

	render := func(s string) string {
		s = strings.ReplaceAll(s, "{{APP_NAME}}", name)
		return strings.ReplaceAll(s, "{{PACKAGE_NAME}}", packageName)
	}

	exec := map[string]bool{}
	for _, rel := range tmpl.executables {
		exec[rel] = true
	}

	for rel, content := range tmpl.files {
		path := filepath.Join(dir, filepath.FromSlash(render(rel)))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			_ = os.RemoveAll(dir)
			return "", err
		}

		mode := os.FileMode(0o644)
		if exec[rel] {
			mode = 0o755
		}
		if err := os.WriteFile(path, []byte(render(content)), mode); err != nil {
			_ = os.RemoveAll(dir)
			return "", err
		}
	}

	return dir, nil
}

// NextSteps returns the getting-started hints shown after scaffolding.
func NextSteps(p Platform) []string {
	switch p {
	case Android:
		return []string{
			"open the project in Android Studio and sync Gradle",
			"run 'gradle wrapper' to generate the real wrapper",
			"plhub platform run android",
		}
	case IOS:
		return []string{
			"open the .xcodeproj in Xcode (requires macOS)",
			"select a simulator or device",
			"plhub platform run ios",
		}
	case MacOS:
		return []string{
			"open the .xcodeproj in Xcode",
			"plhub platform run macos",
		}
	case Windows:
		return []string{
			"dotnet restore",
			"plhub platform run windows",
		}
	case Web:
		return []string{
			"npm install",
			"plhub platform run web",
		}
	}

	return nil
}
