package surface

import (
	"strings"
)

// MountRoot is where the application's asset server exposes bundled web assets
// to legacy documents.
const MountRoot = "/_anki/"

// Exactly these six attribute forms move from the page-relative scheme used by
// paginated pages to the mounted scheme. Nothing else is touched.
var assetRewriter = strings.NewReplacer(
	`src="js/`, `src="`+MountRoot+`js/`,
	`src='js/`, `src='`+MountRoot+`js/`,
	`href="pages/`, `href="`+MountRoot+`pages/`,
	`href='pages/`, `href='`+MountRoot+`pages/`,
	`src="pages/`, `src="`+MountRoot+`pages/`,
	`src='pages/`, `src='`+MountRoot+`pages/`,
)

// RewriteAssetPaths prefixes page-relative js/ and pages/ asset attributes with MountRoot.
func RewriteAssetPaths(markup string) string {
	return assetRewriter.Replace(markup)
}

// MountAsset maps one page-relative asset reference into the mounted scheme.
// Absolute and already-mounted references are returned unchanged.
func MountAsset(ref string) string {
	if strings.HasPrefix(ref, "js/") || strings.HasPrefix(ref, "pages/") {
		return MountRoot + ref
	}
	return ref
}

// MountAssets applies MountAsset to each reference.
func MountAssets(refs []string) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = MountAsset(ref)
	}
	return out
}
